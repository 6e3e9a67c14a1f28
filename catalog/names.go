package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	regexptokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/regexp"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/lexandro/assetview-mcp/filetype"
)

const pathWordsAnalyzer = "path_words"

// NameIndex provides term search over entry names and paths using an in-memory Bleve index.
// It complements Filter: Filter is an exact substring scan, NameIndex ranks word matches.
type NameIndex struct {
	mu      sync.RWMutex
	index   bleve.Index
	loadID  uuid.UUID
	entries []Entry
}

// nameDocument is the document structure stored in Bleve.
type nameDocument struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// NewNameIndex creates an empty name index.
func NewNameIndex() (*NameIndex, error) {
	idx, err := newMemIndex()
	if err != nil {
		return nil, err
	}
	return &NameIndex{index: idx}, nil
}

func newMemIndex() (bleve.Index, error) {
	indexMapping, err := buildNameMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}
	return idx, nil
}

// buildNameMapping splits names and paths on every non letter/digit rune so that
// "notes.txt" yields the words "notes" and "txt".
func buildNameMapping() (*mapping.IndexMappingImpl, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomTokenizer("path_parts", map[string]interface{}{
		"type":   regexptokenizer.Name,
		"regexp": `[\p{L}\p{N}]+`,
	})
	if err != nil {
		return nil, fmt.Errorf("registering tokenizer: %w", err)
	}
	err = indexMapping.AddCustomAnalyzer(pathWordsAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     "path_parts",
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("registering analyzer: %w", err)
	}

	docMapping := bleve.NewDocumentMapping()

	nameField := bleve.NewTextFieldMapping()
	nameField.Analyzer = pathWordsAnalyzer
	nameField.Store = false
	docMapping.AddFieldMappingsAt("name", nameField)

	pathField := bleve.NewTextFieldMapping()
	pathField.Analyzer = pathWordsAnalyzer
	pathField.Store = false
	docMapping.AddFieldMappingsAt("path", pathField)

	typeField := bleve.NewKeywordFieldMapping()
	typeField.Store = false
	docMapping.AddFieldMappingsAt("type", typeField)

	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = pathWordsAnalyzer
	return indexMapping, nil
}

// Rebuild replaces the index contents with the snapshot's entries, indexing batchSize
// documents per Bleve batch. The previous index keeps serving searches until the new one
// is complete.
func (ni *NameIndex) Rebuild(snapshot *Snapshot, batchSize int) error {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	var loadID uuid.UUID
	var entries []Entry
	if snapshot != nil {
		loadID = snapshot.LoadID
		entries = snapshot.Entries
	}

	idx, err := newMemIndex()
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	for _, entry := range entries {
		doc := nameDocument{Name: entry.Name, Path: entry.Path, Type: string(entry.Type)}
		if err := batch.Index(strconv.Itoa(entry.ID), doc); err != nil {
			idx.Close()
			return fmt.Errorf("indexing entry %d: %w", entry.ID, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				idx.Close()
				return fmt.Errorf("applying index batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			idx.Close()
			return fmt.Errorf("applying index batch: %w", err)
		}
	}

	ni.mu.Lock()
	old := ni.index
	ni.index = idx
	ni.loadID = loadID
	ni.entries = entries
	ni.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// FindOptions configures a term search.
type FindOptions struct {
	Terms      string
	Type       filetype.Type // optional category restriction
	Glob       string        // optional doublestar pattern matched against the path
	MaxResults int
}

// FindResult holds the entries of one search and the load they were indexed from.
type FindResult struct {
	LoadID  uuid.UUID
	Entries []Entry
	Total   uint64 // index hits before MaxResults was applied
}

// Find searches names and paths and returns matching entries ordered by relevance.
// Terms format:
//   - plain words: word-level match on name or path
//   - "quoted words": phrase match
//   - /regex/: regular expression on single words
//
// The glob is resolved against every indexed path before searching, so only matching
// entries take part in ranking.
func (ni *NameIndex) Find(options FindOptions) (FindResult, error) {
	ni.mu.RLock()
	defer ni.mu.RUnlock()

	result := FindResult{LoadID: ni.loadID}
	if options.MaxResults <= 0 {
		options.MaxResults = 50
	}

	searchQuery := buildFindQuery(options.Terms, options.Type)
	if options.Glob != "" {
		glob := strings.ReplaceAll(options.Glob, "\\", "/")
		if !doublestar.ValidatePattern(glob) {
			return FindResult{}, fmt.Errorf("invalid glob pattern: %s", options.Glob)
		}
		var ids []string
		for _, entry := range ni.entries {
			if matched, _ := doublestar.Match(glob, entry.Path); matched {
				ids = append(ids, strconv.Itoa(entry.ID))
			}
		}
		if len(ids) == 0 {
			return result, nil
		}
		searchQuery = bleve.NewConjunctionQuery(searchQuery, bleve.NewDocIDQuery(ids))
	}

	request := bleve.NewSearchRequest(searchQuery)
	request.Size = options.MaxResults

	searchResult, err := ni.index.Search(request)
	if err != nil {
		return FindResult{}, fmt.Errorf("searching name index: %w", err)
	}

	result.Total = searchResult.Total
	for _, hit := range searchResult.Hits {
		id, err := strconv.Atoi(hit.ID)
		if err != nil || id < 0 || id >= len(ni.entries) {
			continue
		}
		result.Entries = append(result.Entries, ni.entries[id])
	}
	return result, nil
}

// buildFindQuery parses the terms into a Bleve query over the name and path fields.
func buildFindQuery(terms string, typ filetype.Type) query.Query {
	terms = strings.TrimSpace(terms)

	var textQuery query.Query
	switch {
	case terms == "":
		textQuery = bleve.NewMatchAllQuery()
	case len(terms) > 2 && strings.HasPrefix(terms, "/") && strings.HasSuffix(terms, "/"):
		pattern := strings.ToLower(terms[1 : len(terms)-1])
		name := bleve.NewRegexpQuery(pattern)
		name.SetField("name")
		path := bleve.NewRegexpQuery(pattern)
		path.SetField("path")
		textQuery = bleve.NewDisjunctionQuery(name, path)
	case len(terms) > 2 && strings.HasPrefix(terms, "\"") && strings.HasSuffix(terms, "\""):
		phrase := terms[1 : len(terms)-1]
		name := bleve.NewMatchPhraseQuery(phrase)
		name.SetField("name")
		path := bleve.NewMatchPhraseQuery(phrase)
		path.SetField("path")
		textQuery = bleve.NewDisjunctionQuery(name, path)
	default:
		name := bleve.NewMatchQuery(terms)
		name.SetField("name")
		name.SetBoost(2)
		path := bleve.NewMatchQuery(terms)
		path.SetField("path")
		textQuery = bleve.NewDisjunctionQuery(name, path)
	}

	if typ == "" {
		return textQuery
	}
	typeQuery := bleve.NewTermQuery(string(typ))
	typeQuery.SetField("type")
	return bleve.NewConjunctionQuery(textQuery, typeQuery)
}

// DocumentCount returns the number of documents in the Bleve index.
func (ni *NameIndex) DocumentCount() uint64 {
	ni.mu.RLock()
	defer ni.mu.RUnlock()
	count, _ := ni.index.DocCount()
	return count
}

// Close closes the Bleve index.
func (ni *NameIndex) Close() error {
	ni.mu.Lock()
	defer ni.mu.Unlock()
	return ni.index.Close()
}
