package rag

import "docqa/internal/knowledge"

// Branch names the path a question took through the pipeline.
type Branch string

const (
	BranchChitchat            Branch = "chitchat"
	BranchCalculation         Branch = "calculation"
	BranchCalculationFallback Branch = "calculation_fallback"
	BranchNotReady            Branch = "not_ready"
	BranchNoMatch             Branch = "no_match"
	BranchAnswer              Branch = "answer"
	BranchError               Branch = "error"
)

// Fixed user-facing replies.
const (
	MsgNotReady = "知识库尚未准备好，请先上传文档。"
	MsgNoMatch  = "「未找到相关内容」"
	MsgError    = "抱歉，处理问题时出现了错误，请稍后重试。"

	calculationPrefix = "计算结果是："
)

// DefaultTopK is the number of pairs retrieved per question.
const DefaultTopK = 5

// AskRequest represents a question for the pipeline.
type AskRequest struct {
	// Question is the user's input, question or not.
	Question string `json:"question"`
	// Debug enables debug mode, returning per-stage retrieval details.
	Debug bool `json:"debug,omitempty"`
}

// Reference is a stored pair used as context for a synthesized answer.
type Reference struct {
	ID             string  `json:"id"`
	Question       string  `json:"question"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Result is the outcome of one question.
type Result struct {
	// Answer is the text shown to the user. It is always set.
	Answer string `json:"answer"`
	// Branch is the terminal stage that produced Answer.
	Branch Branch `json:"branch"`
	// References are the pairs that passed the relevance filter, in retrieved order.
	References []Reference `json:"references,omitempty"`
	// Debug contains stage details when requested.
	Debug *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo contains per-stage information for debugging and evaluation.
type DebugInfo struct {
	IsQuestion    *bool           `json:"is_question,omitempty"`
	IsCalculation *bool           `json:"is_calculation,omitempty"`
	Expression    string          `json:"expression,omitempty"`
	Retrieved     []RetrievedPair `json:"retrieved,omitempty"`
	// Stage durations in milliseconds.
	Timing map[string]int64 `json:"timing_ms,omitempty"`
}

// RetrievedPair is one search hit with its relevance verdict.
type RetrievedPair struct {
	knowledge.ScoredPair
	// Rank is the 1-based position in the search results.
	Rank     int  `json:"rank"`
	Relevant bool `json:"relevant"`
	// CheckFailed is set when the relevance completion failed and the pair was dropped.
	CheckFailed bool `json:"check_failed,omitempty"`
}
