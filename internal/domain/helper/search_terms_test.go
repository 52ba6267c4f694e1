package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSearchTerms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"カンマ区切り", "Cơm tấm, Cơm cháy", []string{"cơm tấm", "cơm cháy"}},
		{"ピリオド区切り", "món 1. món 2", []string{"món 1", "món 2"}},
		{"ハイフン区切り", "món 3 - món 4", []string{"món 3", "món 4"}},
		{"引用符とセミコロンを除去", `phở'; DROP "x"`, []string{"phở drop x"}},
		{"空の語は捨てる", "bún,, ,", []string{"bún"}},
		{"区切りのみ", "-", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSearchTerms(tt.in))
		})
	}
}

func TestSearchPatterns(t *testing.T) {
	assert.Equal(t, []string{"bún chả"}, SearchPatterns("Bún Chả"))
	assert.Equal(t, []string{"bún", "phở"}, SearchPatterns("bún - phở"))
	assert.Equal(t, []string{"-"}, SearchPatterns(" - "))
	// 1語でも区切り文字は取り除いた語で検索する
	assert.Equal(t, []string{"bún chả"}, SearchPatterns("bún chả."))
}

func TestSanitizeTerm(t *testing.T) {
	assert.Equal(t, "abc", SanitizeTerm(` "a'b;c" `))
}
