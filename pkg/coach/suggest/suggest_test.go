package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/intent"
	"github.com/Engineernoob/ai-interview-buddy/pkg/coach/retrieve"
)

type stubGenerator struct {
	result CoachingResult
	err    error
}

func (s stubGenerator) Generate(context.Context, string, intent.Label, retrieve.ContextBundle) (CoachingResult, error) {
	return s.result, s.err
}

func TestEngine_UsesPrimaryWhenItSucceeds(t *testing.T) {
	e := NewEngine(stubGenerator{result: CoachingResult{
		Bullets:  []string{"custom tip"},
		FollowUp: "custom follow-up?",
	}}, nil)

	got := e.Suggest(context.Background(), "Tell me about yourself", intent.Experience, retrieve.ContextBundle{})
	if got.Bullets[0] != "custom tip" || got.FollowUp != "custom follow-up?" {
		t.Fatalf("got %+v, want primary result", got)
	}
}

func TestEngine_FallsBackToCannedOnError(t *testing.T) {
	e := NewEngine(stubGenerator{err: errors.New("model down")}, nil)

	got := e.Suggest(context.Background(), "Tell me about a time you failed", intent.Behavioral, retrieve.ContextBundle{})
	if len(got.Bullets) == 0 || got.FollowUp == "" {
		t.Fatalf("fallback result incomplete: %+v", got)
	}
	if !strings.Contains(got.Bullets[0], "STAR") {
		t.Fatalf("bullets=%v, want behavioral canned advice", got.Bullets)
	}
}

func TestEngine_NoPrimaryUsesCanned(t *testing.T) {
	e := NewEngine(nil, nil)

	got := e.Suggest(context.Background(), "Anything", intent.Unknown, retrieve.ContextBundle{})
	if len(got.Bullets) == 0 || got.FollowUp == "" {
		t.Fatalf("canned default incomplete: %+v", got)
	}
}

func TestCanned_AppendsMatchingSkills(t *testing.T) {
	bundle := retrieve.ContextBundle{MatchingSkills: []string{"go", "kubernetes", "sql"}}
	got := Canned(intent.Technical, bundle)

	last := got.Bullets[len(got.Bullets)-1]
	if !strings.Contains(last, "go, kubernetes") {
		t.Fatalf("last bullet=%q, want first two skills mentioned", last)
	}
	if strings.Contains(last, "sql") {
		t.Fatalf("last bullet=%q, want at most two skills", last)
	}
}

func TestCanned_DoesNotMutateTables(t *testing.T) {
	bundle := retrieve.ContextBundle{MatchingSkills: []string{"python"}}
	before := len(cannedByLabel[intent.Motivation].Bullets)
	_ = Canned(intent.Motivation, bundle)
	_ = Canned(intent.Motivation, bundle)
	if got := len(cannedByLabel[intent.Motivation].Bullets); got != before {
		t.Fatalf("canned table grew from %d to %d bullets", before, got)
	}
}

func TestOllama_ParsesJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path=%q, want /api/generate", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"response":"{\"bullets\":[\"tip one\",\"tip two\"],\"follow_up\":\"ask this?\"}"}`))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama2", srv.Client(), nil)
	got, err := o.Generate(context.Background(), "Why us?", intent.Motivation, retrieve.ContextBundle{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got.Bullets) != 2 || got.FollowUp != "ask this?" {
		t.Fatalf("got %+v", got)
	}
}

func TestOllama_ParsesBulletedTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":"Here is my advice:\n- Lead with impact\n- Keep it short\nFollow up:\nWhat does success look like?"}`))
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama2", srv.Client(), nil)
	got, err := o.Generate(context.Background(), "Tell me about yourself", intent.Experience, retrieve.ContextBundle{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(got.Bullets) != 2 || got.Bullets[0] != "Lead with impact" {
		t.Fatalf("bullets=%v", got.Bullets)
	}
	if got.FollowUp != "What does success look like?" {
		t.Fatalf("follow_up=%q", got.FollowUp)
	}
}

func TestOllama_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	o := NewOllama(srv.URL, "llama2", srv.Client(), nil)
	if _, err := o.Generate(context.Background(), "q", intent.Unknown, retrieve.ContextBundle{}); err == nil {
		t.Fatalf("expected error on 404")
	}
}

func TestParseModelOutput_NumberedList(t *testing.T) {
	got := parseModelOutput("1. First tip\n2) Second tip\n3: Third tip\n4. Fourth tip")
	if len(got.Bullets) != 3 {
		t.Fatalf("bullets=%v, want capped at three", got.Bullets)
	}
	if got.Bullets[0] != "First tip" {
		t.Fatalf("bullets[0]=%q", got.Bullets[0])
	}
	if got.FollowUp == "" {
		t.Fatalf("follow_up must never be empty")
	}
}

func TestParseModelOutput_EmptyContentStillUsable(t *testing.T) {
	got := parseModelOutput("")
	if len(got.Bullets) == 0 || got.FollowUp == "" {
		t.Fatalf("got %+v, want non-empty defaults", got)
	}
}
