package recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// SuggestionClient is the generative-model capability the pipeline consumes.
type SuggestionClient interface {
	// SuggestSongs asks for n songs similar to the seed and returns the raw
	// model text.
	SuggestSongs(ctx context.Context, seed SeedQuery, n int) (string, error)
	// CleanSeed normalizes the seed to catalog naming conventions. It must
	// return the input unchanged rather than fail on unusable model output.
	CleanSeed(ctx context.Context, seed SeedQuery) (SeedQuery, error)
}

// Resolver verifies a single candidate against an external catalog.
// A (nil, nil) return means the catalog simply has nothing playable for the
// candidate; errors are reserved for the catalog backend itself failing.
type Resolver interface {
	Resolve(ctx context.Context, c Candidate) (*Song, error)
}

// Expander maps one matched seed into a full set of related songs. It is
// the alternate pipeline shape for catalogs that expose a recommendation
// endpoint of their own; a deployment uses either a Resolver or an
// Expander, never both.
type Expander interface {
	Expand(ctx context.Context, c Candidate) ([]Song, error)
}

type Service struct {
	client      SuggestionClient
	resolver    Resolver
	expander    Expander
	suggestions int
	maxResults  int
}

type Config struct {
	// Suggestions is how many candidates a single model call asks for.
	Suggestions int
	// MaxResults caps the returned result set.
	MaxResults int
}

// NewService wires the pipeline. Exactly one of resolver and expander
// should be non-nil; when both are set the resolver wins.
func NewService(client SuggestionClient, resolver Resolver, expander Expander, config Config) *Service {
	if config.Suggestions == 0 {
		config.Suggestions = 10
	}
	if config.MaxResults == 0 {
		config.MaxResults = 10
	}

	return &Service{
		client:      client,
		resolver:    resolver,
		expander:    expander,
		suggestions: config.Suggestions,
		maxResults:  config.MaxResults,
	}
}

// Recommend turns a seed song into a validated, playable result set. Input
// rejection happens before any external call; a classified catalog failure
// aborts the whole request even if earlier candidates already resolved.
func (s *Service) Recommend(ctx context.Context, seed SeedQuery) ([]Song, error) {
	seed.Title = strings.TrimSpace(seed.Title)
	seed.Artist = strings.TrimSpace(seed.Artist)

	if seed.Title == "" || seed.Artist == "" {
		return nil, &InputError{Reason: "Missing title or artist"}
	}
	if Blocked(seed.Title) || Blocked(seed.Artist) {
		return nil, &InputError{Reason: "Inappropriate input"}
	}

	if s.resolver != nil {
		return s.recommendByCandidates(ctx, seed)
	}
	return s.recommendByExpansion(ctx, seed)
}

func (s *Service) recommendByCandidates(ctx context.Context, seed SeedQuery) ([]Song, error) {
	raw, err := s.client.SuggestSongs(ctx, seed, s.suggestions)
	if err != nil {
		return nil, fmt.Errorf("generating suggestions: %w", err)
	}

	parsed := Parse(raw)
	log.Debug().
		Str("source", parsed.Source.String()).
		Int("candidates", len(parsed.Candidates)).
		Msg("Parsed model suggestions")

	return s.selectSongs(ctx, parsed.Candidates)
}

// selectSongs resolves candidates in generation order until maxResults
// songs are collected or the list runs out. One catalog failure maps to one
// caller-visible failure.
func (s *Service) selectSongs(ctx context.Context, candidates []Candidate) ([]Song, error) {
	songs := []Song{}
	for _, c := range candidates {
		if c.Title == "" || c.Artist == "" {
			continue
		}

		song, err := s.resolver.Resolve(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("resolving %q by %q: %w", c.Title, c.Artist, err)
		}
		if song == nil {
			log.Debug().Str("title", c.Title).Str("artist", c.Artist).Msg("No playable match for candidate")
			continue
		}

		songs = append(songs, *song)
		if len(songs) >= s.maxResults {
			break
		}
	}
	return songs, nil
}

func (s *Service) recommendByExpansion(ctx context.Context, seed SeedQuery) ([]Song, error) {
	cleaned, err := s.client.CleanSeed(ctx, seed)
	if err != nil {
		// The cleanup call is an optimization; the raw seed still stands.
		log.Warn().Err(err).Msg("Seed cleanup failed, using raw input")
		cleaned = seed
	}

	songs, err := s.expander.Expand(ctx, Candidate{Title: cleaned.Title, Artist: cleaned.Artist})
	if err != nil {
		return nil, fmt.Errorf("expanding seed %q by %q: %w", cleaned.Title, cleaned.Artist, err)
	}

	if songs == nil {
		songs = []Song{}
	}
	if len(songs) > s.maxResults {
		songs = songs[:s.maxResults]
	}
	return songs, nil
}
