package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"empty", "", false},
		{"single char", "a", true},
		{"at limit", strings.Repeat("a", MaxContentLength), true},
		{"over limit", strings.Repeat("a", MaxContentLength+1), false},
		{"multibyte at limit", strings.Repeat("ü", MaxContentLength), true},
		{"multibyte over limit", strings.Repeat("ü", MaxContentLength+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidContent(tt.content))
		})
	}
}

func TestReview_OwnedBy(t *testing.T) {
	r := &Review{ReviewerID: "alice@example.com"}

	assert.True(t, r.OwnedBy("alice@example.com"))
	assert.False(t, r.OwnedBy("bob@example.com"))
	assert.False(t, r.OwnedBy(""))
}

func TestCallerFromContext(t *testing.T) {
	_, ok := CallerFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithCaller(context.Background(), CallerIdentity{ID: "alice@example.com"})
	id, ok := CallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "alice@example.com", id.ID)

	_, ok = CallerFromContext(WithCaller(context.Background(), CallerIdentity{}))
	assert.False(t, ok, "an empty identity is not a caller")
}
