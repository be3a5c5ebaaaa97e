package verse

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// DevotionRequest is the input to devotion generation. All fields are required.
type DevotionRequest struct {
	Reference string `json:"reference" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Mood      string `json:"mood" validate:"required"`
}

// Normalize trims surrounding whitespace from every field.
func (r DevotionRequest) Normalize() DevotionRequest {
	return DevotionRequest{
		Reference: strings.TrimSpace(r.Reference),
		Content:   strings.TrimSpace(r.Content),
		Mood:      strings.TrimSpace(r.Mood),
	}
}

// Missing lists the json names of empty required fields, in declaration order.
func (r DevotionRequest) Missing() []string {
	err := validate.Struct(r.Normalize())
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, strings.ToLower(fe.Field()))
	}
	return out
}

// Devotion is a generated reflection.
type Devotion struct {
	Title string `json:"title"`
	Body  string `json:"content"`
}

// PrivacyRecord is one saved devotion as seen by the privacy list.
type PrivacyRecord struct {
	ID       int64  `json:"id"`
	Title    string `json:"title,omitempty"`
	IsPublic bool   `json:"is_public"`
}
