package srcset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Set
	}{
		{
			name: "density descriptors",
			in:   "a.png 1x, b.png 2x",
			want: Set{{URL: "a.png", Descriptors: []string{"1x"}}, {URL: "b.png", Descriptors: []string{"2x"}}},
		},
		{
			name: "width descriptors without spaces after commas",
			in:   "small.jpg 480w,large.jpg 1080w",
			want: Set{{URL: "small.jpg", Descriptors: []string{"480w"}}, {URL: "large.jpg", Descriptors: []string{"1080w"}}},
		},
		{
			name: "no descriptors",
			in:   "a.png, b.png",
			want: Set{{URL: "a.png"}, {URL: "b.png"}},
		},
		{
			name: "single url",
			in:   "  only.png  ",
			want: Set{{URL: "only.png"}},
		},
		{
			name: "comma inside url",
			in:   "/img/a,b.png 1x, /img/c.png 2x",
			want: Set{{URL: "/img/a,b.png", Descriptors: []string{"1x"}}, {URL: "/img/c.png", Descriptors: []string{"2x"}}},
		},
		{
			name: "multiple descriptors",
			in:   "a.png 100w 2x",
			want: Set{{URL: "a.png", Descriptors: []string{"100w", "2x"}}},
		},
		{
			name: "parenthesised descriptor",
			in:   "a.png calc(1, 2), b.png 2x",
			want: Set{{URL: "a.png", Descriptors: []string{"calc(1, 2)"}}, {URL: "b.png", Descriptors: []string{"2x"}}},
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestString(t *testing.T) {
	assert.Equal(t, "a.png 1x, b.png 2x", Parse("a.png   1x,b.png 2x").String())
	assert.Equal(t, "a.png, b.png 480w", Parse("a.png, b.png 480w").String())
	assert.Equal(t, "a.png,b.png 480w", Parse("a.png,b.png 480w").String())
	assert.Equal(t, "", Set(nil).String())
}
