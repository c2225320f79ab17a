// Copyright Axiom Biosystems Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API and flattens PubMed
// articles into per-author raw records for the pipeline.
package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/axiombio/lead-engine/internal/httputil"
	"github.com/axiombio/lead-engine/pkg/types"
)

// E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// efetch accepts up to 100 IDs per request.
const maxFetchBatch = 100

// Client talks to the PubMed E-utilities API.
type Client struct {
	HTTP *http.Client
}

// SearchIDs runs an esearch query for one term and returns the matching
// PMIDs, most relevant first.
func (c *Client) SearchIDs(ctx context.Context, term string, cfg types.FetchConfig) ([]string, error) {
	maxResults := cfg.MaxResultsPerTerm
	if maxResults <= 0 {
		maxResults = 50
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {term},
		"retmax":  {strconv.Itoa(maxResults)},
		"retmode": {"json"},
		"sort":    {"relevance"},
	}
	addEtiquette(params, cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, esearchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("esearch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch returned HTTP %d", resp.StatusCode)
	}

	var er esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return nil, fmt.Errorf("parsing esearch response: %w", err)
	}
	return er.Result.IDList, nil
}

// FetchRecords retrieves article details for the given PMIDs and flattens
// each article into one RawRecord per author. searchTerm is recorded on
// every emitted record.
func (c *Client) FetchRecords(ctx context.Context, pmids []string, searchTerm string, cfg types.FetchConfig) ([]types.RawRecord, error) {
	var records []types.RawRecord

	for start := 0; start < len(pmids); start += maxFetchBatch {
		end := start + maxFetchBatch
		if end > len(pmids) {
			end = len(pmids)
		}

		batch, err := c.fetchBatch(ctx, pmids[start:end], cfg)
		if err != nil {
			return records, err
		}
		for _, article := range batch.Articles {
			records = append(records, flattenArticle(article, searchTerm)...)
		}
	}
	return records, nil
}

func (c *Client) fetchBatch(ctx context.Context, pmids []string, cfg types.FetchConfig) (*articleSet, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}
	addEtiquette(params, cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("efetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch returned HTTP %d", resp.StatusCode)
	}

	var set articleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing efetch response: %w", err)
	}
	return &set, nil
}

// FetchAll runs every search term and concatenates the flattened records.
// Individual term failures warn on w and the run continues; a delay applies
// between terms per NCBI usage guidelines.
func (c *Client) FetchAll(ctx context.Context, terms []string, cfg types.FetchConfig, w io.Writer) ([]types.RawRecord, error) {
	var all []types.RawRecord

	for i, term := range terms {
		if i > 0 && cfg.TermDelay > 0 {
			select {
			case <-ctx.Done():
				return all, ctx.Err()
			case <-time.After(cfg.TermDelay):
			}
		}

		pmids, err := c.SearchIDs(ctx, term, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: search %q failed: %v\n", term, err)
			continue
		}
		if len(pmids) == 0 {
			fmt.Fprintf(w, "no publications for %q\n", term)
			continue
		}

		records, err := c.FetchRecords(ctx, pmids, term, cfg)
		if err != nil {
			fmt.Fprintf(w, "warning: fetch for %q failed: %v\n", term, err)
		}
		fmt.Fprintf(w, "fetched %q: %d publications, %d author records\n", term, len(pmids), len(records))
		all = append(all, records...)
	}
	return all, nil
}

func addEtiquette(params url.Values, cfg types.FetchConfig) {
	if cfg.APIKey != "" {
		params.Set("api_key", cfg.APIKey)
	}
	if cfg.ContactEmail != "" {
		params.Set("email", cfg.ContactEmail)
	}
	params.Set("tool", "lead-engine")
}

var yearRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// flattenArticle emits one RawRecord per author. An author-level email
// identifier marks the corresponding author; the address is appended to the
// affiliation text when not already embedded there, so the extractor sees it.
func flattenArticle(a pubmedArticle, searchTerm string) []types.RawRecord {
	pmid := strings.TrimSpace(a.Citation.PMID)
	title := strings.TrimSpace(a.Citation.Article.Title)
	journal := strings.TrimSpace(a.Citation.Article.Journal.Title)
	year := articleYear(a.Citation.Article.Journal.Issue.PubDate)

	var records []types.RawRecord
	for _, author := range a.Citation.Article.AuthorList.Authors {
		name := authorName(author)
		if name == "" {
			continue
		}

		affiliation := strings.TrimSpace(author.Affiliation.Text)
		corresponding := false
		for _, id := range author.Identifiers {
			if strings.EqualFold(id.Source, "email") {
				corresponding = true
				email := strings.TrimSpace(id.Value)
				if email != "" && !strings.Contains(affiliation, email) {
					affiliation = strings.TrimSpace(affiliation + " " + email)
				}
			}
		}

		records = append(records, types.RawRecord{
			SourceID:        pmid,
			AuthorName:      name,
			Affiliation:     affiliation,
			PaperTitle:      title,
			Journal:         journal,
			PubYear:         year,
			IsCorresponding: corresponding,
			SearchTerm:      searchTerm,
		})
	}
	return records
}

func authorName(a pubmedAuthor) string {
	last := strings.TrimSpace(a.LastName)
	fore := strings.TrimSpace(a.ForeName)
	switch {
	case last != "" && fore != "":
		return fore + " " + last
	case last != "":
		return last
	default:
		return strings.TrimSpace(a.CollectiveName)
	}
}

// articleYear reads the publication year from either the structured Year
// element or a free-form MedlineDate like "2024 Jan-Feb".
func articleYear(d pubmedDate) int {
	if y, err := strconv.Atoi(strings.TrimSpace(d.Year)); err == nil {
		return y
	}
	if m := yearRe.FindString(d.MedlineDate); m != "" {
		y, _ := strconv.Atoi(m)
		return y
	}
	return 0
}

// esearch JSON structures.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

type esearchResult struct {
	Count  string   `json:"count"`
	IDList []string `json:"idlist"`
}

// PubMed efetch XML structures (PubmedArticleSet subset).
type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string            `xml:"PMID"`
	Article pubmedArticleInfo `xml:"Article"`
}

type pubmedArticleInfo struct {
	Title      string           `xml:"ArticleTitle"`
	Journal    pubmedJournal    `xml:"Journal"`
	AuthorList pubmedAuthorList `xml:"AuthorList"`
}

type pubmedJournal struct {
	Title string             `xml:"Title"`
	Issue pubmedJournalIssue `xml:"JournalIssue"`
}

type pubmedJournalIssue struct {
	PubDate pubmedDate `xml:"PubDate"`
}

type pubmedDate struct {
	Year        string `xml:"Year"`
	MedlineDate string `xml:"MedlineDate"`
}

type pubmedAuthorList struct {
	Authors []pubmedAuthor `xml:"Author"`
}

type pubmedAuthor struct {
	LastName       string             `xml:"LastName"`
	ForeName       string             `xml:"ForeName"`
	CollectiveName string             `xml:"CollectiveName"`
	Affiliation    pubmedAffiliation  `xml:"AffiliationInfo"`
	Identifiers    []pubmedIdentifier `xml:"Identifier"`
}

type pubmedAffiliation struct {
	Text string `xml:"Affiliation"`
}

type pubmedIdentifier struct {
	Source string `xml:"Source,attr"`
	Value  string `xml:",chardata"`
}
