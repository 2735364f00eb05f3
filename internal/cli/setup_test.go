package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emreakca/cursorwatch/internal/cli"
)

func TestExtractSessionToken(t *testing.T) {
	tests := []struct {
		name string
		curl string
		want string
	}{
		{
			name: "cookie header",
			curl: `curl 'https://cursor.com/api/dashboard/get-monthly-invoice' -H 'cookie: other=1; WorkosCursorSessionToken=abc123%3A%3Atoken; trailing=2'`,
			want: "abc123%3A%3Atoken",
		},
		{
			name: "-b flag",
			curl: `curl -b "WorkosCursorSessionToken=tok-456" https://cursor.com/api`,
			want: "tok-456",
		},
		{
			name: "multiline command",
			curl: "curl 'https://cursor.com/api' \\\n  -H 'cookie: WorkosCursorSessionToken=multi-line-tok'\n",
			want: "multi-line-tok",
		},
		{
			name: "no token present",
			curl: `curl -H 'cookie: session=other' https://example.com`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cli.ExtractSessionToken(tt.curl))
		})
	}
}
