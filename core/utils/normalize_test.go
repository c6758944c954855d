package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeItemKey(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"plain number string", "728", "728"},
		{"zero padded", "000728", "728"},
		{"integer input", 728, "728"},
		{"int64 input", int64(728), "728"},
		{"whitespace", "  728 ", "728"},
		{"non numeric", "PKG-Linens", "pkg-linens"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeItemKey(tt.input))
		})
	}
}

func TestNormalizeItemKey_Idempotent(t *testing.T) {
	for _, in := range []string{"728", "000728", "PKG-Linens", "60in round"} {
		once := NormalizeItemKey(in)
		assert.Equal(t, once, NormalizeItemKey(once))
	}
}
