package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"line endings", "a\r\nb\rc", "a\nb\nc"},
		{"inner spaces", "Build   reliable\t\tservices", "Build reliable services"},
		{"blank runs", "one\n\n\n\n\ntwo", "one\n\ntwo"},
		{"bullet glyphs", "• Go\n· SQL\n* Kafka", "- Go\n- SQL\n- Kafka"},
		{"trims edges", "\n\n  Requirements  \n", "Requirements"},
		{"keeps dashes", "- Python\n- 5+ years", "- Python\n- 5+ years"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
