package competitorservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	competitordb "github.com/High-Desert-Practical/match-sync/app/modules/competitor/infrastructure/repositories"
	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
	"github.com/High-Desert-Practical/match-sync/internal/observability"
)

// dobLayout is the date-of-birth format used by the export.
const dobLayout = "2006-01-02"

// Resolution is the outcome of resolving one external member record. The
// Competitor is a merged record built from (existing-row-or-none, incoming
// member); when Existing is true it carries the matched row's id.
type Resolution struct {
	Competitor competitordb.Competitor
	Existing   bool
}

// Resolver decides whether an external member corresponds to an
// already-known competitor. Absence of a match is a valid outcome, never an
// error; errors are reserved for infrastructure faults.
type Resolver struct {
	repo          competitordb.Repository
	logger        *slog.Logger
	metrics       observability.Metrics
	tracer        trace.Tracer
	excluded      map[int64]struct{}
	caseSensitive bool
}

// NewResolver creates a Resolver. excludedAliases are registration aliases
// that must never participate in registration-number matching.
func NewResolver(
	repo competitordb.Repository,
	logger *slog.Logger,
	metrics observability.Metrics,
	tracer trace.Tracer,
	excludedAliases []int64,
	caseSensitiveNames bool,
) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	excluded := make(map[int64]struct{}, len(excludedAliases))
	for _, a := range excludedAliases {
		excluded[a] = struct{}{}
	}
	return &Resolver{
		repo:          repo,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		excluded:      excluded,
		caseSensitive: caseSensitiveNames,
	}
}

// Resolve runs the identity priority chain for one external member:
//  1. a usable registration alias is looked up by registration number;
//  2. otherwise candidates sharing first+last name are collected;
//  3. a supplied date of birth narrows the candidates;
//  4. a candidate with no registration number is preferred (it is a
//     placeholder awaiting enrichment), else the one with the lowest id.
//
// The returned record is merged from the matched row and the member data;
// when nothing matches it is a freshly assembled record with a zero id.
func (r *Resolver) Resolve(ctx context.Context, db bun.IDB, member matchdto.RawMember) (Resolution, error) {
	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "Resolver.Resolve")
		defer span.End()
	}

	// Step 1: registration alias.
	if alias, ok := r.usableAlias(member.Alias); ok {
		existing, err := r.repo.GetByRegistration(ctx, db, alias)
		if err != nil && !errors.Is(err, competitordb.ErrNotFound) {
			return Resolution{}, fmt.Errorf("failed to look up competitor by registration %d: %w", alias, err)
		}
		if existing != nil {
			r.logger.DebugContext(ctx, "Resolved competitor by registration",
				attr.Int64("registration", alias),
				attr.Int64("competitor_id", existing.ID),
			)
			return Resolution{Competitor: r.merge(existing, member), Existing: true}, nil
		}
	}

	// Step 2: name candidates.
	candidates, err := r.repo.ListByName(ctx, db, strings.TrimSpace(member.FirstName), strings.TrimSpace(member.LastName), r.caseSensitive)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to look up competitors by name: %w", err)
	}
	if len(candidates) == 0 {
		return Resolution{Competitor: r.assemble(member)}, nil
	}

	// Step 3: narrow by date of birth when supplied. A stored DOB that
	// differs rules the candidate out; a candidate without a stored DOB
	// stays eligible as an enrichable placeholder. No candidate surviving
	// means this is a different person with the same name.
	if dob, ok := parseDOB(member.DateOfBirth); ok {
		narrowed := candidates[:0:0]
		for _, c := range candidates {
			if c.DateOfBirth == nil || sameDate(*c.DateOfBirth, dob) {
				narrowed = append(narrowed, c)
			}
		}
		if len(narrowed) == 0 {
			r.logger.DebugContext(ctx, "No candidate shares the supplied date of birth",
				attr.String("first_name", member.FirstName),
				attr.String("last_name", member.LastName),
			)
			return Resolution{Competitor: r.assemble(member)}, nil
		}
		candidates = narrowed
	}

	// Step 4: prefer a placeholder (no registration); candidates arrive
	// ordered by ascending id, so the first remaining one is the tie-break.
	chosen := candidates[0]
	for _, c := range candidates {
		if c.Registration == nil {
			chosen = c
			break
		}
	}

	r.logger.DebugContext(ctx, "Resolved competitor by name",
		attr.String("first_name", member.FirstName),
		attr.String("last_name", member.LastName),
		attr.Int64("competitor_id", chosen.ID),
		attr.Int("candidates", len(candidates)),
	)
	return Resolution{Competitor: r.merge(&chosen, member), Existing: true}, nil
}

// usableAlias reports whether the member's alias is present, integral and
// not a configured placeholder.
func (r *Resolver) usableAlias(alias string) (int64, bool) {
	alias = strings.TrimSpace(alias)
	if alias == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(alias, 10, 64)
	if err != nil {
		return 0, false
	}
	if _, excluded := r.excluded[n]; excluded {
		return 0, false
	}
	return n, true
}

// assemble builds a fresh competitor record from the external member data.
func (r *Resolver) assemble(member matchdto.RawMember) competitordb.Competitor {
	competitor := competitordb.Competitor{
		FirstName:        strings.TrimSpace(member.FirstName),
		MiddleName:       strings.TrimSpace(member.MiddleName),
		LastName:         strings.TrimSpace(member.LastName),
		CompetitorNumber: strings.TrimSpace(member.Alias),
		Category:         member.Category,
	}
	if competitor.Category == "" {
		competitor.Category = competitordb.CategoryNone
	}
	if alias, ok := r.usableAlias(member.Alias); ok {
		competitor.Registration = &alias
	}
	if dob, ok := parseDOB(member.DateOfBirth); ok {
		competitor.DateOfBirth = &dob
	}
	return competitor
}

// merge produces a new resolved record from the existing row and the
// incoming member data, enriching blank fields without discarding the
// stored identity. The existing row itself is not mutated.
func (r *Resolver) merge(existing *competitordb.Competitor, member matchdto.RawMember) competitordb.Competitor {
	merged := *existing
	incoming := r.assemble(member)

	if merged.FirstName == "" {
		merged.FirstName = incoming.FirstName
	}
	if merged.MiddleName == "" {
		merged.MiddleName = incoming.MiddleName
	}
	if merged.LastName == "" {
		merged.LastName = incoming.LastName
	}
	if merged.Registration == nil {
		merged.Registration = incoming.Registration
	}
	if merged.CompetitorNumber == "" {
		merged.CompetitorNumber = incoming.CompetitorNumber
	}
	if merged.DateOfBirth == nil {
		merged.DateOfBirth = incoming.DateOfBirth
	}
	if merged.Category == "" || merged.Category == competitordb.CategoryNone {
		merged.Category = incoming.Category
	}
	return merged
}

// parseDOB parses the export's date-of-birth format.
func parseDOB(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dobLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sameDate compares two timestamps on their date component only.
func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
