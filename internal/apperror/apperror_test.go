package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	t.Parallel()

	base := HTTP("extraction.submit", 502, "bad gateway")
	wrapped := fmt.Errorf("ingest: %w", base)

	if KindOf(wrapped) != KindHTTP {
		t.Fatalf("expected http kind, got %s", KindOf(wrapped))
	}
	if !Is(wrapped, KindHTTP) {
		t.Fatalf("expected Is to match http kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatalf("expected plain errors to be internal")
	}
	if !strings.Contains(base.Error(), "status 502") {
		t.Fatalf("expected status code in message, got %q", base.Error())
	}
}

func TestUserMessageHidesVendorDetails(t *testing.T) {
	t.Parallel()

	err := Network("extraction.submit", errors.New("dial tcp 10.0.0.1:443: connection refused"))
	msg := UserMessage(err)
	if strings.Contains(msg, "10.0.0.1") {
		t.Fatalf("expected vendor details to be hidden, got %q", msg)
	}

	v := Validation("resume.upload", "unsupported file type .exe")
	if UserMessage(v) != "unsupported file type .exe" {
		t.Fatalf("expected validation message to pass through, got %q", UserMessage(v))
	}
}
