package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rushteam/tourkit/pkg/utils"
)

func TestDomainError(t *testing.T) {
	err := Errorf(ModuleDataset, ErrorCodeDataError, "missing column %q", "Rating")
	if err.Error() != `dataset: missing column "Rating"` {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := fmt.Errorf("load: %w", err)
	if !IsDataError(wrapped) || IsInvalidInput(wrapped) {
		t.Error("code check through wrapping failed")
	}
	if !errors.Is(wrapped, NewDomainError(ModuleDataset, ErrorCodeDataError, "other message")) {
		t.Error("errors.Is should compare module and code")
	}
	if errors.Is(wrapped, NewDomainError(ModuleEncoder, ErrorCodeDataError, "")) {
		t.Error("errors.Is should not match a different module")
	}
	if GetDomainError(wrapped) != err || !IsDomainError(wrapped) {
		t.Error("GetDomainError should unwrap")
	}
	if IsDomainError(errors.New("plain")) || GetDomainError(nil) != nil {
		t.Error("plain errors are not domain errors")
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{NewDomainError(ModuleStore, ErrorCodeNotFound, ""), IsNotFound},
		{NewDomainError(ModuleStore, ErrorCodeNotSupported, ""), IsNotSupported},
		{NewDomainError(ModuleRecommend, ErrorCodeInvalidInput, ""), IsInvalidInput},
		{NewDomainError(ModuleEncoder, ErrorCodeUnknownCategory, ""), IsUnknownCategory},
		{fmt.Errorf("get: %w", ErrStoreNotFound), IsStoreNotFound},
	}
	for _, tt := range tests {
		if !tt.check(tt.err) {
			t.Errorf("check failed for %v", tt.err)
		}
	}
	if IsStoreNotFound(NewDomainError(ModuleConfig, ErrorCodeNotFound, "")) {
		t.Error("IsStoreNotFound matched another module")
	}
}

func TestItemLabels(t *testing.T) {
	it := NewItem("1")
	it.PutLabel("recall_source", labelOf("u2i", "recall"))
	it.PutLabel("recall_source", labelOf("content", "recall"))
	if got := it.LabelValue("recall_source"); got != "u2i|content" {
		t.Errorf("merged = %q", got)
	}
	if it.LabelValue("missing") != "" {
		t.Error("missing label should be empty")
	}

	rctx := &RecommendContext{}
	if _, ok := rctx.GetLabel("strategy"); ok {
		t.Error("empty context has label")
	}
	rctx.PutLabel("strategy", labelOf("content", "request"))
	if lbl, ok := rctx.GetLabel("strategy"); !ok || lbl.Value != "content" {
		t.Errorf("GetLabel = %v, %v", lbl, ok)
	}
}

func labelOf(value, source string) utils.Label {
	return utils.Label{Value: value, Source: source}
}

func TestRecommendContextMemo(t *testing.T) {
	rctx := &RecommendContext{}
	calls := 0
	load := func() (any, error) {
		calls++
		return calls, nil
	}
	for i := 0; i < 3; i++ {
		if v, err := rctx.Memo("k", load); err != nil || v != 1 {
			t.Fatalf("Memo() = %v, %v; want 1", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times, want 1", calls)
	}

	boom := errors.New("boom")
	failing := func() (any, error) { calls++; return nil, boom }
	rctx.Memo("bad", failing)
	if _, err := rctx.Memo("bad", failing); !errors.Is(err, boom) || calls != 2 {
		t.Errorf("Memo(bad) err = %v, calls = %d; want cached error", err, calls)
	}
}
