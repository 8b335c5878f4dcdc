package main

import (
	"testing"

	"github.com/ebitenui/ebitenui/widget"
)

func TestTypingSuppressesHotkeys(t *testing.T) {
	cases := []struct {
		name string
		fw   widget.Focuser
		want bool
	}{
		{"nothing_focused", nil, false},
		{"button", &widget.Button{}, false},
		{"text_input", &widget.TextInput{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := typing(c.fw); got != c.want {
				t.Fatalf("typing = %v, want %v", got, c.want)
			}
		})
	}
}
