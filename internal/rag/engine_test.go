package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"docqa/internal/knowledge"
	"docqa/internal/rag/mocks"

	"go.uber.org/mock/gomock"
)

// Markers that identify each default prompt.
const (
	markIsQuestion    = "问题识别助手"
	markIsCalculation = "问题分类助手"
	markChitchat      = "友好的聊天助手"
	markCalcFallback  = "数学计算助手"
	markRelevance     = "相关性判断助手"
	markAnswer        = "问答助手"
)

type rule struct {
	marker string
	// contains optionally narrows the rule to prompts containing this text too.
	contains string
	reply    string
	err      error
}

// scriptedCompleter answers each prompt with the first matching rule.
type scriptedCompleter struct {
	mu      sync.Mutex
	rules   []rule
	prompts []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()

	for _, r := range c.rules {
		if strings.Contains(prompt, r.marker) && strings.Contains(prompt, r.contains) {
			return r.reply, r.err
		}
	}
	return "", fmt.Errorf("unexpected prompt: %.40s", prompt)
}

func (c *scriptedCompleter) count(marker string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.prompts {
		if strings.Contains(p, marker) {
			n++
		}
	}
	return n
}

func (c *scriptedCompleter) last(marker string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.prompts) - 1; i >= 0; i-- {
		if strings.Contains(c.prompts[i], marker) {
			return c.prompts[i]
		}
	}
	return ""
}

func questionRules(extra ...rule) []rule {
	return append([]rule{
		{marker: markIsQuestion, reply: "是"},
		{marker: markIsCalculation, reply: "否"},
	}, extra...)
}

var faqs = []knowledge.ScoredPair{
	{Pair: knowledge.Pair{ID: "0", Question: "退款政策是什么", Answer: "30天内可退款"}, RelevanceScore: 0.92},
	{Pair: knowledge.Pair{ID: "1", Question: "运费多少", Answer: "满99包邮"}, RelevanceScore: 0.61},
}

func TestEngine_Ask(t *testing.T) {
	tests := []struct {
		name       string
		question   string
		rules      []rule
		setupKB    func(kb *mocks.MockKnowledgeBase)
		noKB       bool
		wantBranch Branch
		wantAnswer string
		wantRefs   int
	}{
		{
			name:     "chitchat",
			question: "你好",
			rules: []rule{
				{marker: markIsQuestion, reply: "否"},
				{marker: markChitchat, reply: "你好呀！"},
			},
			setupKB:    func(kb *mocks.MockKnowledgeBase) {},
			wantBranch: BranchChitchat,
			wantAnswer: "你好呀！",
		},
		{
			name:     "calculation evaluated locally",
			question: "3+4等于多少？",
			rules: []rule{
				{marker: markIsQuestion, reply: "是"},
				{marker: markIsCalculation, reply: "是，这是计算问题"},
			},
			noKB:       true,
			wantBranch: BranchCalculation,
			wantAnswer: "计算结果是：7",
		},
		{
			name:     "calculation skips leading date",
			question: "2024-01-01那天 3*4 是多少",
			rules: []rule{
				{marker: markIsQuestion, reply: "是"},
				{marker: markIsCalculation, reply: "是"},
			},
			noKB:       true,
			wantBranch: BranchCalculation,
			wantAnswer: "计算结果是：12",
		},
		{
			name:     "calculation falls back to model",
			question: "一百加二十等于多少？",
			rules: []rule{
				{marker: markIsQuestion, reply: "是"},
				{marker: markIsCalculation, reply: "是"},
				{marker: markCalcFallback, reply: "一百二十"},
			},
			noKB:       true,
			wantBranch: BranchCalculationFallback,
			wantAnswer: "一百二十",
		},
		{
			name:     "division by zero falls back to model",
			question: "5/0是多少？",
			rules: []rule{
				{marker: markIsQuestion, reply: "是"},
				{marker: markIsCalculation, reply: "是"},
				{marker: markCalcFallback, reply: "除数不能为零"},
			},
			noKB:       true,
			wantBranch: BranchCalculationFallback,
			wantAnswer: "除数不能为零",
		},
		{
			name:       "no knowledge base",
			question:   "退款政策是什么？",
			rules:      questionRules(),
			noKB:       true,
			wantBranch: BranchNotReady,
			wantAnswer: MsgNotReady,
		},
		{
			name:     "empty knowledge base",
			question: "退款政策是什么？",
			rules:    questionRules(),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(0)
			},
			wantBranch: BranchNotReady,
			wantAnswer: MsgNotReady,
		},
		{
			name:     "knowledge base unavailable",
			question: "退款政策是什么？",
			rules:    questionRules(),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), "退款政策是什么？", DefaultTopK).
					Return(nil, fmt.Errorf("%w: connection refused", knowledge.ErrUnavailable))
			},
			wantBranch: BranchNotReady,
			wantAnswer: MsgNotReady,
		},
		{
			name:     "search error",
			question: "退款政策是什么？",
			rules:    questionRules(),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))
			},
			wantBranch: BranchError,
			wantAnswer: MsgError,
		},
		{
			name:     "nothing retrieved",
			question: "退款政策是什么？",
			rules:    questionRules(),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return([]knowledge.ScoredPair{}, nil)
			},
			wantBranch: BranchNoMatch,
			wantAnswer: MsgNoMatch,
		},
		{
			name:     "everything filtered out",
			question: "营业时间？",
			rules:    questionRules(rule{marker: markRelevance, reply: "否"}),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(faqs, nil)
			},
			wantBranch: BranchNoMatch,
			wantAnswer: MsgNoMatch,
		},
		{
			name:     "answer synthesized",
			question: "退款政策是什么？",
			rules: questionRules(
				rule{marker: markRelevance, contains: "FAQ问题：退款政策是什么", reply: "是"},
				rule{marker: markRelevance, reply: "否"},
				rule{marker: markAnswer, reply: "30天内可退款。"},
			),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(faqs, nil)
			},
			wantBranch: BranchAnswer,
			wantAnswer: "30天内可退款。",
			wantRefs:   1,
		},
		{
			name:     "failed relevance check drops only that pair",
			question: "退款政策是什么？",
			rules: questionRules(
				rule{marker: markRelevance, contains: "FAQ问题：退款政策是什么", err: errors.New("timeout")},
				rule{marker: markRelevance, reply: "是"},
				rule{marker: markAnswer, reply: "满99包邮"},
			),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(faqs, nil)
			},
			wantBranch: BranchAnswer,
			wantAnswer: "满99包邮",
			wantRefs:   1,
		},
		{
			name:     "classifier failure",
			question: "退款政策是什么？",
			rules: []rule{
				{marker: markIsQuestion, err: errors.New("503")},
			},
			setupKB:    func(kb *mocks.MockKnowledgeBase) {},
			wantBranch: BranchError,
			wantAnswer: MsgError,
		},
		{
			name:     "calculation classifier failure",
			question: "3+4等于多少？",
			rules: []rule{
				{marker: markIsQuestion, reply: "是"},
				{marker: markIsCalculation, err: errors.New("503")},
			},
			setupKB:    func(kb *mocks.MockKnowledgeBase) {},
			wantBranch: BranchError,
			wantAnswer: MsgError,
		},
		{
			name:     "chitchat failure",
			question: "你好",
			rules: []rule{
				{marker: markIsQuestion, reply: "否"},
				{marker: markChitchat, err: errors.New("503")},
			},
			setupKB:    func(kb *mocks.MockKnowledgeBase) {},
			wantBranch: BranchError,
			wantAnswer: MsgError,
		},
		{
			name:     "synthesis failure",
			question: "退款政策是什么？",
			rules: questionRules(
				rule{marker: markRelevance, reply: "是"},
				rule{marker: markAnswer, err: errors.New("503")},
			),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(faqs, nil)
			},
			wantBranch: BranchError,
			wantAnswer: MsgError,
		},
		{
			name:     "affirmative token matched as substring",
			question: "运费多少？",
			rules: questionRules(
				rule{marker: markRelevance, reply: "答案：是的，相关"},
				rule{marker: markAnswer, reply: "满99包邮"},
			),
			setupKB: func(kb *mocks.MockKnowledgeBase) {
				kb.EXPECT().Len().Return(2)
				kb.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).Return(faqs, nil)
			},
			wantBranch: BranchAnswer,
			wantAnswer: "满99包邮",
			wantRefs:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			completer := &scriptedCompleter{rules: tt.rules}
			engine := NewEngine(completer)

			if !tt.noKB {
				kb := mocks.NewMockKnowledgeBase(ctrl)
				tt.setupKB(kb)
				engine.SetKnowledge(kb)
			}

			res := engine.Ask(context.Background(), AskRequest{Question: tt.question})

			if res.Branch != tt.wantBranch {
				t.Errorf("Ask() branch = %s, want %s", res.Branch, tt.wantBranch)
			}
			if res.Answer != tt.wantAnswer {
				t.Errorf("Ask() answer = %q, want %q", res.Answer, tt.wantAnswer)
			}
			if len(res.References) != tt.wantRefs {
				t.Errorf("Ask() references = %d, want %d", len(res.References), tt.wantRefs)
			}
			if res.Debug != nil {
				t.Error("Ask() returned debug info without Debug")
			}
		})
	}
}

func TestEngine_ChitchatNeverTouchesStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	kb := mocks.NewMockKnowledgeBase(ctrl)
	// No expectations: any Len or Search call fails the test.

	completer := &scriptedCompleter{rules: []rule{
		{marker: markIsQuestion, reply: "否"},
		{marker: markChitchat, reply: "你好！"},
	}}
	engine := NewEngine(completer)
	engine.SetKnowledge(kb)

	res := engine.Ask(context.Background(), AskRequest{Question: "你好"})
	if res.Branch != BranchChitchat {
		t.Errorf("Ask() branch = %s, want chitchat", res.Branch)
	}
	if completer.count(markIsCalculation) != 0 {
		t.Error("chitchat should stop before the calculation classifier")
	}
}

func TestEngine_FilterOrderAndContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	kb := mocks.NewMockKnowledgeBase(ctrl)
	kb.EXPECT().Len().Return(3)
	retrieved := append([]knowledge.ScoredPair{}, faqs...)
	retrieved = append(retrieved, knowledge.ScoredPair{
		Pair:           knowledge.Pair{ID: "2", Question: "可以开发票吗", Answer: "可以"},
		RelevanceScore: 0.55,
	})
	kb.EXPECT().Search(gomock.Any(), "退款和发票？", 3).Return(retrieved, nil)

	completer := &scriptedCompleter{rules: questionRules(
		rule{marker: markRelevance, contains: "FAQ问题：运费多少", reply: "否"},
		rule{marker: markRelevance, reply: "是"},
		rule{marker: markAnswer, reply: "ok"},
	)}
	engine := NewEngine(completer, WithTopK(3))
	engine.SetKnowledge(kb)

	res := engine.Ask(context.Background(), AskRequest{Question: "退款和发票？", Debug: true})
	if res.Branch != BranchAnswer {
		t.Fatalf("Ask() branch = %s, want answer", res.Branch)
	}

	if got := completer.count(markRelevance); got != 3 {
		t.Errorf("relevance checks = %d, want one per retrieved pair", got)
	}

	wantContext := "Q: 退款政策是什么\nA: 30天内可退款\n\nQ: 可以开发票吗\nA: 可以"
	if prompt := completer.last(markAnswer); !strings.Contains(prompt, wantContext) {
		t.Errorf("answer prompt missing context block %q:\n%s", wantContext, prompt)
	}
	if prompt := completer.last(markAnswer); strings.Contains(prompt, "满99包邮") {
		t.Error("answer prompt should not include filtered pairs")
	}

	if len(res.References) != 2 || res.References[0].ID != "0" || res.References[1].ID != "2" {
		t.Errorf("Ask() references = %+v, want IDs 0 and 2", res.References)
	}

	if res.Debug == nil {
		t.Fatal("Ask() with Debug returned no debug info")
	}
	if len(res.Debug.Retrieved) != 3 {
		t.Fatalf("debug retrieved = %d, want 3", len(res.Debug.Retrieved))
	}
	if res.Debug.Retrieved[1].Relevant || !res.Debug.Retrieved[0].Relevant || res.Debug.Retrieved[2].Rank != 3 {
		t.Errorf("debug retrieved = %+v", res.Debug.Retrieved)
	}
	if res.Debug.IsQuestion == nil || !*res.Debug.IsQuestion || res.Debug.IsCalculation == nil || *res.Debug.IsCalculation {
		t.Error("debug classifier verdicts not recorded")
	}
	if _, ok := res.Debug.Timing["total"]; !ok {
		t.Error("debug timing missing total")
	}
}

func TestEngine_CompletionTimeout(t *testing.T) {
	completer := &slowCompleter{delay: time.Second}
	engine := NewEngine(completer, WithTimeout(20*time.Millisecond))

	start := time.Now()
	res := engine.Ask(context.Background(), AskRequest{Question: "你好"})
	if res.Branch != BranchError || res.Answer != MsgError {
		t.Errorf("Ask() = %+v, want the fixed error reply", res)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("completion was not bounded by the timeout")
	}
}

type slowCompleter struct {
	delay time.Duration
}

func (c *slowCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.delay):
		return "是", nil
	}
}

func TestEngine_SetKnowledgeConcurrent(t *testing.T) {
	ctrl := gomock.NewController(t)
	kb := mocks.NewMockKnowledgeBase(ctrl)
	kb.EXPECT().Len().Return(0).AnyTimes()

	completer := &scriptedCompleter{rules: questionRules()}
	engine := NewEngine(completer)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			engine.SetKnowledge(kb)
		}()
		go func() {
			defer wg.Done()
			res := engine.Ask(context.Background(), AskRequest{Question: "退款政策是什么？"})
			if res.Branch != BranchNotReady {
				t.Errorf("Ask() branch = %s, want not_ready", res.Branch)
			}
		}()
	}
	wg.Wait()
}

func TestEngine_WithPromptsOverride(t *testing.T) {
	completer := &scriptedCompleter{rules: []rule{
		{marker: markIsQuestion, reply: "否"},
		{marker: markChitchat, reply: "hi"},
	}}
	engine := NewEngine(completer, WithPrompts(nil), WithTopK(0))

	res := engine.Ask(context.Background(), AskRequest{Question: "hello"})
	if res.Branch != BranchChitchat || res.Answer != "hi" {
		t.Errorf("Ask() = %+v", res)
	}
}

func TestBuildContext(t *testing.T) {
	tests := []struct {
		name  string
		pairs []knowledge.ScoredPair
		want  string
	}{
		{name: "empty", pairs: nil, want: ""},
		{name: "single", pairs: faqs[:1], want: "Q: 退款政策是什么\nA: 30天内可退款"},
		{name: "two in order", pairs: faqs, want: "Q: 退款政策是什么\nA: 30天内可退款\n\nQ: 运费多少\nA: 满99包邮"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildContext(tt.pairs); got != tt.want {
				t.Errorf("BuildContext() = %q, want %q", got, tt.want)
			}
		})
	}
}
