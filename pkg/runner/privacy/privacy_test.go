package privacy

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"

	perr "tableflip.dev/devo/pkg/errors"
	"tableflip.dev/devo/pkg/scripture/scripturetest"
	"tableflip.dev/devo/pkg/verse"
)

func init() {
	color.NoColor = true
}

func serve() *scripturetest.Server {
	srv := scripturetest.New()
	srv.Handle(scripturetest.OpDevotions, scripturetest.JSON(200, map[string]any{
		"devotions": []verse.PrivacyRecord{
			{ID: 1, Title: "Morning"},
			{ID: 2, Title: "Noon"},
			{ID: 3, Title: "Evening", IsPublic: true},
		},
	}))
	return srv
}

func TestPrivacyList(t *testing.T) {
	srv := serve()
	defer srv.Close()

	var buf bytes.Buffer
	p := Privacy{Service: srv.Client(), Out: &buf}
	if err := p.Do(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "Evening") || !strings.Contains(out, "2 private, 1 public") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if srv.Calls(scripturetest.OpPrivacy)+srv.Calls(scripturetest.OpBulkPrivacy) != 0 {
		t.Fatalf("listing should not update anything")
	}
}

func TestPrivacySetOne(t *testing.T) {
	srv := serve()
	defer srv.Close()

	var buf bytes.Buffer
	p := Privacy{Service: srv.Client(), IDs: []int64{2}, Public: true, JSON: true, Out: &buf}
	if err := p.Do(context.Background()); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got result
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got.Message != "Privacy updated" || got.Counts.Public != 2 || got.Counts.Private != 1 {
		t.Fatalf("unexpected result %+v", got)
	}
	if srv.LastParam(scripturetest.OpPrivacy) != "2" {
		t.Fatalf("expected devotion 2 to be updated, got %q", srv.LastParam(scripturetest.OpPrivacy))
	}
}

func TestPrivacyBulkFailure(t *testing.T) {
	srv := serve()
	defer srv.Close()
	srv.Handle(scripturetest.OpBulkPrivacy, scripturetest.JSON(400, map[string]string{"message": "Not allowed"}))

	var buf bytes.Buffer
	p := Privacy{Service: srv.Client(), IDs: []int64{1, 2}, Public: true, Out: &buf}
	err := p.Do(context.Background())
	if !perr.Is(err, perr.KindFetch) || perr.Message(err) != "Not allowed" {
		t.Fatalf("expected the service message, got %v", err)
	}
	if srv.Calls(scripturetest.OpBulkPrivacy) != 1 {
		t.Fatalf("expected one batched request")
	}
}
