package helper

import (
	"strings"
)

// 検索語の区切り文字: カンマ・ピリオド・ハイフン
// 例: "Cơm tấm, Cơm cháy" / "món 1. món 2" / "món 3 - món 4"
const termDelimiters = ",.-"

// SanitizeTerm は引用符とセミコロンを取り除く
// SQLにはバインド変数で渡すため、ここは入力の正規化に過ぎない
func SanitizeTerm(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', ';':
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// SplitSearchTerms は検索文字列を区切り文字で分割し、各語を正規化・小文字化する
func SplitSearchTerms(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(termDelimiters, r)
	})

	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		term := strings.ToLower(SanitizeTerm(p))
		if term == "" {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// SearchPatterns は部分一致検索に使う語のリストを返す
// 複数語ならOR条件、1語ならその語のみ。区切り文字しか無い入力は全体を1語として扱う
func SearchPatterns(text string) []string {
	terms := SplitSearchTerms(text)
	if len(terms) > 0 {
		return terms
	}
	return []string{strings.ToLower(SanitizeTerm(text))}
}
