package bot

import (
	"context"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
	"github.com/Bloomy-HackRPI/bloomy/internal/sentiment"
)

type sentMessage struct {
	channelID string
	content   string
}

type fakeMessenger struct {
	sent   []sentMessage
	edits  []sentMessage
	nextID int
}

func (f *fakeMessenger) Send(channelID, content string) (string, error) {
	f.sent = append(f.sent, sentMessage{channelID, content})
	f.nextID++
	return "msg-" + string(rune('0'+f.nextID)), nil
}

func (f *fakeMessenger) Edit(channelID, messageID, content string) error {
	f.edits = append(f.edits, sentMessage{channelID, content})
	return nil
}

type fakeAnalyzer struct {
	calls []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, symbol string) sentiment.Result {
	f.calls = append(f.calls, symbol)
	return sentiment.Result{
		Verdict: models.Verdict{
			Label:      models.Bullish,
			Confidence: models.Confidence{Positive: 0.6, Negative: 0.2, Neutral: 0.2},
			Analysis:   "test analysis narrative",
		},
		Method: "Yahoo Finance",
	}
}

func newTestBot(m *fakeMessenger, a *fakeAnalyzer, summarize func(string)) *Bot {
	return New(m, a, nil, summarize, func() string { return "bot-id" })
}

func humanMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ChannelID: "chan-1",
		Content:   content,
		Author:    &discordgo.User{ID: "user-1", Username: "alice"},
	}
}

func TestPingReplies(t *testing.T) {
	m := &fakeMessenger{}
	b := newTestBot(m, &fakeAnalyzer{}, nil)

	b.HandleMessage(context.Background(), humanMessage("!ping"))

	if len(m.sent) != 1 || m.sent[0].content != "Kachow!" {
		t.Fatalf("Expected single Kachow! reply, got %+v", m.sent)
	}
}

func TestStockCommandPostsLoadingThenEdits(t *testing.T) {
	m := &fakeMessenger{}
	a := &fakeAnalyzer{}
	b := newTestBot(m, a, nil)

	b.HandleMessage(context.Background(), humanMessage("!stock apple"))

	if len(a.calls) != 1 || a.calls[0] != "AAPL" {
		t.Fatalf("Expected one analysis of AAPL, got %v", a.calls)
	}
	if len(m.sent) != 1 {
		t.Fatalf("Expected one loading message, got %d", len(m.sent))
	}
	loading := m.sent[0].content
	if !strings.Contains(loading, "Analyzing") || !strings.HasSuffix(loading, "...") {
		t.Errorf("Loading message missing work marker: %q", loading)
	}
	if !strings.Contains(loading, "(AAPL)") {
		t.Errorf("Loading message missing symbol tag: %q", loading)
	}

	if len(m.edits) != 1 {
		t.Fatalf("Expected one edit, got %d", len(m.edits))
	}
	final := m.edits[0].content
	for _, want := range []string{"**Overall Sentiment:**", "Confidence Scores", "(AAPL)", "60.0%", "Yahoo Finance"} {
		if !strings.Contains(final, want) {
			t.Errorf("Final message missing %q:\n%s", want, final)
		}
	}
}

func TestMentionSmallTalkRepliesKachow(t *testing.T) {
	m := &fakeMessenger{}
	a := &fakeAnalyzer{}
	b := newTestBot(m, a, nil)

	b.HandleMessage(context.Background(), humanMessage("hey bloomy"))

	if len(a.calls) != 0 {
		t.Errorf("Small talk must not trigger analysis, got %v", a.calls)
	}
	if len(m.sent) != 1 || m.sent[0].content != "Kachow!" {
		t.Fatalf("Expected Kachow! reply, got %+v", m.sent)
	}
}

func TestMentionWithQuestionRunsAnalysis(t *testing.T) {
	m := &fakeMessenger{}
	a := &fakeAnalyzer{}
	b := newTestBot(m, a, nil)

	b.HandleMessage(context.Background(), humanMessage("bloomy how is apple stock doing?"))

	if len(a.calls) != 1 || a.calls[0] != "AAPL" {
		t.Fatalf("Expected analysis of AAPL, got %v", a.calls)
	}
}

func TestPlatformMentionDetected(t *testing.T) {
	m := &fakeMessenger{}
	a := &fakeAnalyzer{}
	b := newTestBot(m, a, nil)

	msg := humanMessage("<@bot-id> what's tesla doing")
	msg.Mentions = []*discordgo.User{{ID: "bot-id"}}
	b.HandleMessage(context.Background(), msg)

	if len(a.calls) != 1 || a.calls[0] != "TSLA" {
		t.Fatalf("Expected analysis of TSLA, got %v", a.calls)
	}
}

func TestUnaddressedMessageIgnored(t *testing.T) {
	m := &fakeMessenger{}
	a := &fakeAnalyzer{}
	b := newTestBot(m, a, nil)

	b.HandleMessage(context.Background(), humanMessage("how is apple doing?"))

	if len(m.sent) != 0 || len(a.calls) != 0 {
		t.Errorf("Unaddressed message must be ignored, got sends=%v calls=%v", m.sent, a.calls)
	}
}

func TestUnresolvableQueryGetsGuidance(t *testing.T) {
	m := &fakeMessenger{}
	b := newTestBot(m, &fakeAnalyzer{}, nil)

	b.HandleMessage(context.Background(), humanMessage("!stock frobnicator"))

	if len(m.sent) != 1 || !strings.Contains(m.sent[0].content, "couldn't find a stock") {
		t.Fatalf("Expected guidance reply, got %+v", m.sent)
	}
	if len(m.edits) != 0 {
		t.Errorf("Guidance path must not edit anything")
	}
}

func TestSummaryPostedToResponseChannel(t *testing.T) {
	m := &fakeMessenger{}
	var summaries []string
	b := newTestBot(m, &fakeAnalyzer{}, func(s string) { summaries = append(summaries, s) })

	b.HandleMessage(context.Background(), humanMessage("!stock gamestop"))

	if len(summaries) != 1 {
		t.Fatalf("Expected one summary, got %d", len(summaries))
	}
	for _, want := range []string{"alice", "(GME)", "analyzed"} {
		if !strings.Contains(summaries[0], want) {
			t.Errorf("Summary missing %q: %s", want, summaries[0])
		}
	}
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"bloomy how is apple stock doing?", "apple"},
		{"<@1234> what's tesla doing today", "tesla"},
		{"Bloomy what is the GME stock", "GME"},
		{"hey bloomy", "hey"},
		{"bloomy", ""},
	}

	for _, tt := range tests {
		if got := CleanQuery(tt.in); got != tt.want {
			t.Errorf("CleanQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
