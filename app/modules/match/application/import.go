package matchservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	matchdto "github.com/High-Desert-Practical/match-sync/app/modules/match/dto"
	"github.com/High-Desert-Practical/match-sync/internal/attr"
	"github.com/High-Desert-Practical/match-sync/internal/faults"
	"github.com/High-Desert-Practical/match-sync/internal/results"
)

// ImportContainer runs the full pipeline on a raw export container: decode,
// group into match bundles, then reconcile each bundle in its own
// transaction. A bundle that fails validation is rolled back, reported in
// the result, and does not block the remaining bundles. Decode failures and
// infrastructure faults abort the run and surface on the error return.
func (s *MatchService) ImportContainer(ctx context.Context, content []byte) (*matchdto.ImportResult, error) {
	result, err := withTelemetry(s, ctx, "ImportContainer", fmt.Sprintf("%d bytes", len(content)), func(ctx context.Context) (results.OperationResult[*matchdto.ImportResult, error], error) {
		return s.importContainerLogic(ctx, content)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// importContainerLogic contains the core logic.
func (s *MatchService) importContainerLogic(ctx context.Context, content []byte) (results.OperationResult[*matchdto.ImportResult, error], error) {
	container, err := s.parser.Parse(content)
	if err != nil {
		if faults.IsValidation(err) || faults.IsFatal(err) {
			return results.FailureResult[*matchdto.ImportResult, error](err), nil
		}
		return results.OperationResult[*matchdto.ImportResult, error]{}, fmt.Errorf("failed to decode container: %w", err)
	}

	bundles := GroupContainer(container)
	out := &matchdto.ImportResult{}
	for _, bundle := range bundles {
		summary, err := s.importBundle(ctx, bundle)
		if err != nil {
			var ve *faults.ValidationError
			if errors.As(err, &ve) {
				// The bundle rolled back; the run continues.
				s.logger.WarnContext(ctx, "Skipping unprocessable match bundle",
					attr.String("match", bundle.Match.Name),
					attr.String("kind", ve.Kind),
					attr.String("reason", ve.Detail),
				)
				out.Failures = append(out.Failures, matchdto.BundleFailure{
					Match:  bundle.Match.Name,
					Kind:   ve.Kind,
					Reason: ve.Detail,
				})
				continue
			}
			return results.OperationResult[*matchdto.ImportResult, error]{}, fmt.Errorf("failed to import bundle %q: %w", bundle.Match.Name, err)
		}
		out.Imported = append(out.Imported, *summary)
	}

	if len(out.Imported) > 0 {
		s.publishEvent(ctx, TopicMatchImported, out)
	}
	return results.SuccessResult[*matchdto.ImportResult, error](out), nil
}

// importBundle reconciles one bundle inside its own transaction. The
// transaction never spans multiple matches.
func (s *MatchService) importBundle(ctx context.Context, bundle matchdto.MatchBundle) (*matchdto.MatchSummary, error) {
	result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*matchdto.MatchSummary, error], error) {
		summary, err := s.reconcileBundle(ctx, db, bundle)
		if err != nil {
			return results.OperationResult[*matchdto.MatchSummary, error]{}, err
		}
		return results.SuccessResult[*matchdto.MatchSummary, error](summary), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}
