package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0 Ft"},
		{999, "999 Ft"},
		{1000, "1 000 Ft"},
		{89990, "89 990 Ft"},
		{389990, "389 990 Ft"},
		{1250000, "1 250 000 Ft"},
		{-4990, "-4 990 Ft"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatPrice(c.amount))
	}
}
