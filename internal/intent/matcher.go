// Package intent 实现话语的模糊意图匹配与实体提取。
// 匹配是启发式的：先对词元做编辑距离纠错，再按固定优先级扫描关键词子串。
package intent

import (
	"strings"
	"unicode/utf8"
)

// similarityThreshold 纠错接受阈值
// 词元与关键词的相似度（1 - 编辑距离/较长串长度）达到阈值才采纳纠正
const similarityThreshold = 0.7

// allKeywords 展平后的全部关键词（纠错候选集）
var allKeywords = func() []string {
	var words []string
	for _, cat := range intentCategories {
		words = append(words, cat.keywords...)
	}
	return words
}()

// Classify 将话语映射到意图
// 永不失败：空话语或无关键词命中时返回 IntentGeneral
func Classify(utterance string) Intent {
	corrected := CorrectSpelling(utterance)

	for _, cat := range intentCategories {
		for _, kw := range cat.keywords {
			if strings.Contains(corrected, kw) {
				return cat.intent
			}
		}
	}
	return IntentGeneral
}

// CorrectSpelling 对话语做逐词模糊纠错
// 每个词元在关键词集中找最相似者，达到阈值则替换，否则保留原词
func CorrectSpelling(input string) string {
	words := strings.Fields(strings.ToLower(input))
	corrected := make([]string, 0, len(words))

	for _, word := range words {
		corrected = append(corrected, correctWord(word))
	}
	return strings.Join(corrected, " ")
}

// correctWord 单词元纠错
func correctWord(word string) string {
	best := word
	bestScore := 0.0

	for _, kw := range allKeywords {
		if kw == word {
			return word
		}
		score := similarity(word, kw)
		if score > bestScore {
			bestScore = score
			best = kw
		}
	}

	if bestScore >= similarityThreshold {
		return best
	}
	return word
}

// similarity 归一化相似度，1 为完全相同
// 分母与编辑距离一致按 rune 计数，多字节输入不会失真
func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(maxLen)
}

// levenshtein 计算编辑距离（单行滚动数组）
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur := make([]int, len(rb)+1)
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev = cur
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
