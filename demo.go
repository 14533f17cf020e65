package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"legalrag-backend/models"
	"legalrag-backend/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	answerStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// assistant is the part of the query service the demo and the prompt use
type assistant interface {
	Query(ctx context.Context, req service.QueryRequest) (*service.QueryResult, error)
	AdvancedSearch(ctx context.Context, req service.AdvancedSearchRequest) ([]models.SearchHit, error)
	LegalResearch(ctx context.Context, req service.LegalResearchRequest) (*service.LegalResearchResult, error)
	CaseAnalysis(ctx context.Context, caseNumber string) (*service.CaseAnalysisResult, error)
}

type searchExample struct {
	name       string
	query      string
	searchType models.SearchType
	filters    *models.SearchFilters
}

var searchExamples = []searchExample{
	{
		name:       "Semantic Search",
		query:      "What are the obligations of employers regarding workplace safety?",
		searchType: models.SearchTypeSemantic,
		filters:    &models.SearchFilters{PracticeAreas: []string{"employment"}},
	},
	{
		name:       "Keyword Search",
		query:      "non-compete clause",
		searchType: models.SearchTypeKeyword,
		filters:    &models.SearchFilters{DocumentType: "contract"},
	},
	{
		name:       "Hybrid Search",
		query:      "intellectual property licensing terms",
		searchType: models.SearchTypeHybrid,
		filters:    &models.SearchFilters{PracticeAreas: []string{"intellectual_property"}},
	},
}

var researchExamples = []service.LegalResearchRequest{
	{Topic: "employment termination procedures", PracticeArea: "employment"},
	{Topic: "merger and acquisition due diligence", PracticeArea: "corporate"},
}

func demonstrateSearch(ctx context.Context, out io.Writer, a assistant) {
	fmt.Fprintln(out, "\n"+headingStyle.Render("🔍 Search Demonstrations"))

	for _, ex := range searchExamples {
		fmt.Fprintf(out, "\n🔎 %s\nQuery: '%s'\n", ex.name, ex.query)

		res, err := a.Query(ctx, service.QueryRequest{Question: ex.query, SearchType: ex.searchType, Filters: ex.filters, Limit: 3})
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Search failed: %v", err)))
			continue
		}

		fmt.Fprintf(out, "📄 Found %d relevant documents\n", len(res.SourceDocuments))
		for i, doc := range res.SourceDocuments[:min(len(res.SourceDocuments), 2)] {
			score := "N/A"
			if doc.Score != nil {
				score = fmt.Sprintf("%.3f", *doc.Score)
			}
			fmt.Fprintf(out, "   %d. %s... (%s, score: %s)\n", i+1, clip(orDefault(doc.Title, "Unknown"), 50), orDefault(doc.DocumentType, "unknown"), score)
		}
		fmt.Fprintf(out, "🤖 Answer: %s\n", ellipsize(res.Answer, 200))
	}
}

func demonstrateResearch(ctx context.Context, out io.Writer, a assistant) {
	fmt.Fprintln(out, "\n"+headingStyle.Render("📚 Legal Research Demonstration"))

	for _, req := range researchExamples {
		fmt.Fprintf(out, "\n📖 Researching: %s\n", req.Topic)
		res, err := a.LegalResearch(ctx, req)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Research failed: %v", err)))
			continue
		}
		fmt.Fprintf(out, "📄 Found %d relevant documents\n", len(res.Documents))
		fmt.Fprintf(out, "📑 Found %d relevant sections\n", len(res.Sections))
		fmt.Fprintf(out, "📝 Summary: %s\n", ellipsize(res.ResearchSummary, 300))
	}
}

// demonstrateCaseAnalysis analyzes the first known case number among a few
// semantic hits for "case"
func demonstrateCaseAnalysis(ctx context.Context, out io.Writer, a assistant) {
	fmt.Fprintln(out, "\n"+headingStyle.Render("⚖️  Case Analysis Demonstration"))

	hits, err := a.AdvancedSearch(ctx, service.AdvancedSearchRequest{Query: "case", SearchType: models.SearchTypeSemantic, Limit: 5})
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Case analysis failed: %v", err)))
		return
	}

	caseNumber := ""
	for _, h := range hits {
		if h.CaseNumber != "" && h.CaseNumber != models.UnknownCaseNumber {
			caseNumber = h.CaseNumber
			break
		}
	}
	if caseNumber == "" {
		fmt.Fprintln(out, "📋 No case numbers found in current documents")
		return
	}

	fmt.Fprintf(out, "📋 Analyzing case: %s\n", caseNumber)
	printCase(ctx, out, a, caseNumber)
}

func printCase(ctx context.Context, out io.Writer, a assistant, caseNumber string) {
	res, err := a.CaseAnalysis(ctx, caseNumber)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Case analysis failed: %v", err)))
		return
	}
	if !res.Found() {
		fmt.Fprintf(out, "📋 %s\n", res.Error)
		return
	}
	fmt.Fprintf(out, "📄 Total documents: %d\n", res.TotalDocuments)
	fmt.Fprintf(out, "👥 Parties: %s\n", strings.Join(res.Parties[:min(len(res.Parties), 3)], ", "))
	fmt.Fprintf(out, "🏛️  Courts: %s\n", strings.Join(res.Courts, ", "))
	fmt.Fprintf(out, "⚖️  Practice areas: %s\n", strings.Join(res.PracticeAreas, ", "))
	fmt.Fprintf(out, "📝 %s\n", res.CaseSummary)
}

// interactive answers one question per line until exit, quit, q or EOF.
// "research <topic>" and "case <number>" run the matching analysis instead.
func interactive(ctx context.Context, in io.Reader, out io.Writer, a assistant) {
	fmt.Fprintln(out, "\n"+headingStyle.Render("💬 Interactive Mode"))
	fmt.Fprintln(out, "Ask questions about your legal documents. Type 'exit' to quit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n❓ Your question: ")
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Fprintln(out, "\n👋 Goodbye!")
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch lower := strings.ToLower(line); {
		case line == "":
			continue
		case lower == "exit" || lower == "quit" || lower == "q":
			fmt.Fprintln(out, "👋 Goodbye!")
			return
		case strings.HasPrefix(lower, "research "):
			res, err := a.LegalResearch(ctx, service.LegalResearchRequest{Topic: strings.TrimSpace(line[len("research "):])})
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Error: %v", err)))
				continue
			}
			fmt.Fprintf(out, "📄 %d documents, %d sections\n", len(res.Documents), len(res.Sections))
			fmt.Fprintln(out, answerStyle.Render(res.ResearchSummary))
		case strings.HasPrefix(lower, "case "):
			printCase(ctx, out, a, strings.TrimSpace(line[len("case "):]))
		default:
			answer(ctx, out, a, line)
		}
	}
}

func answer(ctx context.Context, out io.Writer, a assistant, question string) {
	fmt.Fprintln(out, mutedStyle.Render("🔍 Searching..."))
	res, err := a.Query(ctx, service.QueryRequest{Question: question, SearchType: models.SearchTypeHybrid, Limit: 3})
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Error: %v", err)))
		return
	}

	fmt.Fprintln(out, "\n🤖 Answer:")
	fmt.Fprintln(out, answerStyle.Render(res.Answer))
	fmt.Fprintf(out, "\n📚 Based on %d source documents:\n", len(res.SourceDocuments))
	for i, doc := range res.SourceDocuments {
		fmt.Fprintf(out, "   %d. %s (%s)\n", i+1, orDefault(doc.Title, "Unknown"), orDefault(doc.DocumentType, "unknown"))
	}
	if len(res.Citations) > 0 {
		fmt.Fprintf(out, "\n📖 Related citations: %s\n", strings.Join(res.Citations[:min(len(res.Citations), 3)], ", "))
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func ellipsize(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return clip(s, n) + "..."
}
