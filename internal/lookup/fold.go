package lookup

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// đ 不是组合字符, 需要单独替换
var dReplacer = strings.NewReplacer("đ", "d", "Đ", "d")

// Fold 去除越南语声调和变音符号并转为小写, 用于不区分声调的匹配
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = dReplacer.Replace(folded)
	return strings.ToLower(strings.Join(strings.Fields(folded), " "))
}
