// SPDX-License-Identifier: MPL-2.0

package digest_test

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/packster/packster/pkg/digest"
)

func TestSHA256_GenerateChecksum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "sentence",
			input: "This is a long sentence that stands for binary content to be checked",
			want:  "564fef4556880e65e5ca00ae35bac4f07fa5f714ea31cc1119f6cdacbc14bcd8",
		},
		{
			name:  "empty stream",
			input: "",
			want:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := digest.NewSHA256().GenerateChecksum(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("GenerateChecksum() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("GenerateChecksum() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSHA256_GenerateChecksumReadError(t *testing.T) {
	t.Parallel()

	readErr := errors.New("disk on fire")
	_, err := digest.SHA256{}.GenerateChecksum(iotest.ErrReader(readErr))
	if !errors.Is(err, readErr) {
		t.Fatalf("GenerateChecksum() error = %v, want %v", err, readErr)
	}
}
