package main

import (
	"reflect"
	"testing"

	"github.com/apparentlymart/sentgen/grammar"
	prompt "github.com/c-bata/go-prompt"
)

func TestLabelCompleter(t *testing.T) {
	g, err := grammar.ParseString("S>NP,VP\nNP>DET,N\nN>dog,cat\nVP>ran\n")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	complete := labelCompleter(g)

	tests := []struct {
		input string
		want  []prompt.Suggest
	}{
		{"", []prompt.Suggest{
			{Text: "S", Description: "NP,VP"},
			{Text: "NP", Description: "DET,N"},
			{Text: "N", Description: "dog,cat"},
			{Text: "VP", Description: "ran"},
		}},
		{"n", []prompt.Suggest{
			{Text: "NP", Description: "DET,N"},
			{Text: "N", Description: "dog,cat"},
		}},
		{"VP", []prompt.Suggest{
			{Text: "VP", Description: "ran"},
		}},
		{"X", []prompt.Suggest{}},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			buf := prompt.NewBuffer()
			buf.InsertText(test.input, false, true)
			got := complete(*buf.Document())
			if len(got) == 0 && len(test.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("wrong suggestions\ngot:  %#v\nwant: %#v", got, test.want)
			}
		})
	}
}
