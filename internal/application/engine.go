// Package application orchestrates the scoring and certification engine:
// validated requests in, domain errors out, every mutation a single atomic
// unit against the store.
package application

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-tally/internal/domain"
	"github.com/ahrav/go-tally/internal/ports"
	"github.com/ahrav/go-tally/internal/tabulation"
)

// tracerName identifies the engine's OpenTelemetry tracer.
const tracerName = "github.com/ahrav/go-tally/internal/application"

// Audit action names written to the audit sink.
const (
	actionCertifyJudge       = "certify_judge"
	actionVerifyTally        = "verify_tally"
	actionCertifyFinal       = "certify_final"
	actionUnsign             = "unsign"
	actionApplyDeduction     = "apply_deduction"
	actionFlagDiscrepancy    = "flag_discrepancy"
	actionApproveDiscrepancy = "approve_discrepancy"
	actionRejectDiscrepancy  = "reject_discrepancy"
	actionRetireJudge        = "retire_judge"
	actionRetireContestant   = "retire_contestant"
	actionAdjustCriterionCap = "adjust_criterion_cap"
)

// ScoreSet is the result of a score read: entries plus the shared judge
// comments in the same scope.
type ScoreSet struct {
	Entries  []domain.ScoreEntry  `json:"entries"`
	Comments []domain.ScoreComment `json:"comments,omitempty"`
}

// TabulationResult is the output of Tabulate at any scope. Subcategories
// always carries the constituent per-subcategory results; RollUp is set
// for category and contest scopes.
type TabulationResult struct {
	Scope         TabulateScope                  `json:"scope"`
	ScopeID       string                         `json:"scope_id"`
	Subcategories []tabulation.SubcategoryResult `json:"subcategories"`
	RollUp        *tabulation.ScopeResult        `json:"roll_up,omitempty"`
}

// Engine is the scoring and multi-stage certification engine. It accepts
// raw per-criterion scores from judges, aggregates them into contestant
// totals, and advances those totals through the role-gated certification
// pipeline. The engine is stateless between calls apart from the
// tabulation cache and is safe for concurrent use.
type Engine struct {
	store     ports.Store
	identity  ports.IdentityProvider
	audit     ports.AuditSink
	metrics   ports.MetricsCollector
	tabulator *tabulation.CachedTabulator
	tracer    trace.Tracer
	config    EngineConfig
	now       func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithMetrics installs a metrics collector. The default discards metrics.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithConfig replaces the default EngineConfig.
func WithConfig(cfg EngineConfig) Option {
	return func(e *Engine) { e.config = cfg }
}

// WithClock replaces the wall clock, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine constructs an engine over the given store and collaborators.
// The store, identity provider, and audit sink are required.
func NewEngine(store ports.Store, identity ports.IdentityProvider, audit ports.AuditSink, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity provider is required")
	}
	if audit == nil {
		return nil, fmt.Errorf("audit sink is required")
	}

	e := &Engine{
		store:    store,
		identity: identity,
		audit:    audit,
		metrics:  ports.NopMetrics{},
		tracer:   otel.Tracer(tracerName),
		config:   DefaultEngineConfig(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := validate.Struct(e.config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	e.tabulator = tabulation.NewCachedTabulator(e.loadSnapshot)
	return e, nil
}

// loadSnapshot assembles the tabulation inputs for one subcategory from
// the store. Reads are point-in-time; callers needing transactional
// consistency hold the cache invalidation contract instead.
func (e *Engine) loadSnapshot(ctx context.Context, subcategoryID string) (tabulation.Snapshot, error) {
	sub, err := e.store.Subcategory(ctx, subcategoryID)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	criteria, err := e.store.Criteria(ctx, subcategoryID)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	contestants, err := e.store.AssignedContestants(ctx, subcategoryID)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	scores, err := e.store.Scores(ctx, subcategoryID, domain.ScoreFilter{})
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	deductions, err := e.store.Deductions(ctx, subcategoryID)
	if err != nil {
		return tabulation.Snapshot{}, err
	}
	return tabulation.Snapshot{
		Subcategory: sub,
		Criteria:    criteria,
		Contestants: contestants,
		Scores:      scores,
		Deductions:  deductions,
	}, nil
}

// observe records operation latency and outcome metrics.
func (e *Engine) observe(operation string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	e.metrics.RecordLatency(operation, time.Since(start), map[string]string{"operation": operation})
	e.metrics.RecordCounter("operations_total", 1, map[string]string{
		"operation": operation,
		"status":    status,
	})
}

// auditEntry builds an audit record with a fresh ID and the engine clock.
func (e *Engine) auditEntry(actorID, action, entityType, entityID string, details map[string]string) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		At:         e.now(),
	}
}

// status derives the observable certification state for a subcategory
// from the records in tx.
func (e *Engine) status(ctx context.Context, tx ports.Store, subcategoryID string) (domain.CertificationStatus, error) {
	judges, err := tx.AssignedJudges(ctx, subcategoryID)
	if err != nil {
		return domain.CertificationStatus{}, err
	}
	certs, err := tx.JudgeCertifications(ctx, subcategoryID)
	if err != nil {
		return domain.CertificationStatus{}, err
	}
	_, tallied, err := tx.TallyVerification(ctx, subcategoryID)
	if err != nil {
		return domain.CertificationStatus{}, err
	}
	_, final, err := tx.FinalCertification(ctx, subcategoryID)
	if err != nil {
		return domain.CertificationStatus{}, err
	}

	certified := make(map[string]bool, len(certs))
	status := domain.CertificationStatus{
		SubcategoryID: subcategoryID,
		TallyVerified: tallied,
		Final:         final,
		Discrepancy:   domain.DiscrepancyNone,
	}
	for _, c := range certs {
		certified[c.JudgeID] = true
		status.CertifiedJudges = append(status.CertifiedJudges, c.JudgeID)
	}
	for _, j := range judges {
		if !certified[j.ID] {
			status.PendingJudges = append(status.PendingJudges, j.ID)
		}
	}
	status.Stage = domain.DeriveStage(len(judges), len(status.CertifiedJudges), tallied, final)

	cases, err := tx.Discrepancies(ctx, subcategoryID)
	if err != nil {
		return domain.CertificationStatus{}, err
	}
	for _, c := range cases {
		if c.State == domain.DiscrepancyPending {
			status.Discrepancy = domain.DiscrepancyPending
			break
		}
		if status.Discrepancy == domain.DiscrepancyNone {
			status.Discrepancy = c.State
		}
	}
	return status, nil
}

// pendingDiscrepancy returns the first pending case for a subcategory.
func pendingDiscrepancy(ctx context.Context, tx ports.Store, subcategoryID string) (*domain.DiscrepancyCase, error) {
	cases, err := tx.Discrepancies(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}
	for i := range cases {
		if cases[i].State == domain.DiscrepancyPending {
			return &cases[i], nil
		}
	}
	return nil, nil
}

// SubmitScores upserts one judge's scores for one contestant in a
// subcategory and returns the slot's new write revision. The write is
// rejected with a LockedError once the judge has certified the
// subcategory (unless the caller is the organizer) or once a final
// certification exists, with a RangeError for any value outside
// [0, effective cap], and with a ConflictError when the expected revision
// is stale. On success any cached tabulation for the subcategory is
// invalidated before returning.
func (e *Engine) SubmitScores(ctx context.Context, req SubmitScoresRequest) (int64, error) {
	ctx, span := e.tracer.Start(ctx, "engine.submit_scores", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
		attribute.String("judge_id", req.JudgeID),
	))
	defer span.End()
	start := e.now()

	var revision int64
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid submit request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		switch {
		case actor.Role == domain.RoleOrganizer:
			// Elevated role may edit on a judge's behalf pre-final.
		case actor.Role == domain.RoleJudge && actor.ID == req.JudgeID:
		default:
			return &domain.ForbiddenError{Action: "submit scores"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			sub, err := tx.Subcategory(ctx, req.SubcategoryID)
			if err != nil {
				return err
			}
			if err := e.checkScoreWriteLock(ctx, tx, sub.ID, req.JudgeID, actor); err != nil {
				return err
			}
			if err := requireAssignedJudge(ctx, tx, sub.ID, req.JudgeID); err != nil {
				return err
			}
			if err := requireAssignedContestant(ctx, tx, sub.ID, req.ContestantID); err != nil {
				return err
			}

			criteria, err := tx.Criteria(ctx, sub.ID)
			if err != nil {
				return err
			}
			caps := make(map[string]float64, len(criteria))
			for _, c := range criteria {
				caps[c.ID] = c.EffectiveCap(sub)
			}

			entries := make([]domain.ScoreEntry, 0, len(req.Entries))
			for _, in := range req.Entries {
				limit, ok := caps[in.CriterionID]
				if !ok {
					return &domain.NotFoundError{Entity: "criterion", ID: in.CriterionID}
				}
				if in.Value < 0 || in.Value > limit {
					return &domain.RangeError{CriterionID: in.CriterionID, Value: in.Value, Cap: limit}
				}
				entries = append(entries, domain.ScoreEntry{
					SubcategoryID: sub.ID,
					CriterionID:   in.CriterionID,
					ContestantID:  req.ContestantID,
					JudgeID:       req.JudgeID,
					Value:         in.Value,
					UpdatedAt:     e.now(),
				})
			}

			expected, err := tx.Revision(ctx, sub.ID, req.JudgeID)
			if err != nil {
				return err
			}
			if req.ExpectedRevision != nil {
				expected = *req.ExpectedRevision
			}

			var comment *domain.ScoreComment
			if req.Comment != "" {
				comment = &domain.ScoreComment{
					SubcategoryID: sub.ID,
					JudgeID:       req.JudgeID,
					ContestantID:  req.ContestantID,
					Comment:       req.Comment,
					UpdatedAt:     e.now(),
				}
			}

			revision, err = tx.UpsertScores(ctx, sub.ID, req.JudgeID, entries, comment, expected)
			return err
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(req.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("submit_scores", start, err)
	return revision, err
}

// GetScores returns the score entries and comments in a subcategory
// matching the request's filters. The read has no side effects.
func (e *Engine) GetScores(ctx context.Context, req GetScoresRequest) (ScoreSet, error) {
	if err := validate.Struct(req); err != nil {
		return ScoreSet{}, fmt.Errorf("invalid score query: %w", err)
	}
	filter := domain.ScoreFilter{
		JudgeID:      req.JudgeID,
		ContestantID: req.ContestantID,
		CriterionID:  req.CriterionID,
	}
	entries, err := e.store.Scores(ctx, req.SubcategoryID, filter)
	if err != nil {
		return ScoreSet{}, err
	}
	comments, err := e.store.Comments(ctx, req.SubcategoryID, filter)
	if err != nil {
		return ScoreSet{}, err
	}
	return ScoreSet{Entries: entries, Comments: comments}, nil
}

// ApplyDeduction upserts the single overall deduction for a
// (subcategory, contestant) pair. The write is an idempotent overwrite.
// Once a final certification exists the call is rejected with a
// LockedError unless the caller is the organizer.
func (e *Engine) ApplyDeduction(ctx context.Context, req ApplyDeductionRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.apply_deduction", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
		attribute.String("contestant_id", req.ContestantID),
	))
	defer span.End()
	start := e.now()

	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid deduction request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleTally && actor.Role != domain.RoleOrganizer {
			return &domain.ForbiddenError{Action: "apply deduction"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			sub, err := tx.Subcategory(ctx, req.SubcategoryID)
			if err != nil {
				return err
			}
			if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
				return err
			} else if final && actor.Role != domain.RoleOrganizer {
				return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
			}
			if err := requireAssignedContestant(ctx, tx, sub.ID, req.ContestantID); err != nil {
				return err
			}
			if err := tx.UpsertDeduction(ctx, domain.OverallDeduction{
				SubcategoryID: sub.ID,
				ContestantID:  req.ContestantID,
				Amount:        req.Amount,
				Reason:        req.Reason,
				Comment:       req.Comment,
				CreatedBy:     actor.ID,
				UpdatedAt:     e.now(),
			}); err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionApplyDeduction,
				"subcategory", sub.ID, map[string]string{
					"contestant_id": req.ContestantID,
					"amount":        fmt.Sprintf("%.2f", req.Amount),
					"reason":        req.Reason,
				}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(req.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("apply_deduction", start, err)
	return err
}

// CertifyAsJudge records a judge's attestation that every score and
// comment they submitted for the subcategory is final. The signature must
// match the judge's recorded preferred name exactly; near misses are
// rejected with a remediation hint, never coerced. When the last assigned
// judge signs, the subcategory advances to the judge-complete stage.
// Automatic variance detection runs after a successful signature and may
// open a discrepancy case that blocks further transitions.
func (e *Engine) CertifyAsJudge(ctx context.Context, req CertifyJudgeRequest) (domain.CertificationStatus, error) {
	ctx, span := e.tracer.Start(ctx, "engine.certify_judge", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
		attribute.String("judge_id", req.JudgeID),
	))
	defer span.End()
	start := e.now()

	var status domain.CertificationStatus
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid certify request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleJudge || actor.ID != req.JudgeID {
			return &domain.ForbiddenError{Action: "certify as judge"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			sub, err := tx.Subcategory(ctx, req.SubcategoryID)
			if err != nil {
				return err
			}
			judge, err := tx.Judge(ctx, req.JudgeID)
			if err != nil {
				return err
			}
			if err := requireAssignedJudge(ctx, tx, sub.ID, judge.ID); err != nil {
				return err
			}
			if _, exists, err := tx.JudgeCertification(ctx, sub.ID, judge.ID); err != nil {
				return err
			} else if exists {
				return &domain.AlreadyCertifiedError{SubcategoryID: sub.ID, JudgeID: judge.ID}
			}
			if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
				return err
			} else if final {
				return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
			}
			if !signaturesMatch(req.Signature, judge.PreferredName) {
				return &domain.SignatureMismatchError{
					SignerID: judge.ID,
					Provided: req.Signature,
					Hint:     signatureHint(req.Signature, judge.PreferredName, e.config.SignatureHintDistance),
				}
			}
			if pending, err := pendingDiscrepancy(ctx, tx, sub.ID); err != nil {
				return err
			} else if pending != nil {
				return &domain.PrerequisiteError{
					SubcategoryID: sub.ID,
					Stage:         domain.StageJudgeComplete,
					Outstanding:   []string{"discrepancy case " + pending.ID + " pending resolution"},
				}
			}

			if err := tx.InsertJudgeCertification(ctx, domain.JudgeCertification{
				SubcategoryID: sub.ID,
				JudgeID:       judge.ID,
				Signature:     canonicalSignature(req.Signature),
				SignedAt:      e.now(),
			}); err != nil {
				return err
			}

			if err := e.flagVarianceCases(ctx, tx, sub, actor.ID); err != nil {
				return err
			}

			status, err = e.status(ctx, tx, sub.ID)
			if err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionCertifyJudge,
				"subcategory", sub.ID, map[string]string{
					"judge_id": judge.ID,
					"stage":    string(status.Stage),
				}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(req.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("certify_judge", start, err)
	return status, err
}

// flagVarianceCases opens a pending discrepancy case for every
// (criterion, contestant) pair whose judge-to-judge score range exceeds
// the configured fraction of the criterion's effective cap. A pair with
// an existing case, whatever its state, is not flagged again.
func (e *Engine) flagVarianceCases(ctx context.Context, tx ports.Store, sub domain.Subcategory, actorID string) error {
	if e.config.VarianceThreshold <= 0 {
		return nil
	}
	criteria, err := tx.Criteria(ctx, sub.ID)
	if err != nil {
		return err
	}
	scores, err := tx.Scores(ctx, sub.ID, domain.ScoreFilter{})
	if err != nil {
		return err
	}
	existing, err := tx.Discrepancies(ctx, sub.ID)
	if err != nil {
		return err
	}
	flagged := make(map[[2]string]bool, len(existing))
	for _, c := range existing {
		flagged[[2]string{c.CriterionID, c.ContestantID}] = true
	}

	type spread struct {
		min, max float64
		n        int
	}
	spreads := make(map[[2]string]*spread)
	for _, s := range scores {
		key := [2]string{s.CriterionID, s.ContestantID}
		sp := spreads[key]
		if sp == nil {
			spreads[key] = &spread{min: s.Value, max: s.Value, n: 1}
			continue
		}
		if s.Value < sp.min {
			sp.min = s.Value
		}
		if s.Value > sp.max {
			sp.max = s.Value
		}
		sp.n++
	}

	stage := domain.StageJudgePartial
	for _, criterion := range criteria {
		limit := e.config.VarianceThreshold * criterion.EffectiveCap(sub)
		for key, sp := range spreads {
			if key[0] != criterion.ID || sp.n < 2 || flagged[key] {
				continue
			}
			if sp.max-sp.min <= limit {
				continue
			}
			c := domain.DiscrepancyCase{
				ID:            uuid.NewString(),
				SubcategoryID: sub.ID,
				CriterionID:   key[0],
				ContestantID:  key[1],
				Reason: fmt.Sprintf("judge scores range %.2f to %.2f exceeds variance limit %.2f",
					sp.min, sp.max, limit),
				State:         domain.DiscrepancyPending,
				RaisedAtStage: stage,
				OpenedBy:      actorID,
				OpenedAt:      e.now(),
			}
			if err := tx.UpsertDiscrepancy(ctx, c); err != nil {
				return err
			}
			if err := e.audit.Record(ctx, e.auditEntry(actorID, actionFlagDiscrepancy,
				"discrepancy", c.ID, map[string]string{
					"subcategory_id": sub.ID,
					"criterion_id":   key[0],
					"contestant_id":  key[1],
					"reason":         c.Reason,
				})); err != nil {
				return err
			}
		}
	}
	return nil
}

// VerifyAsTally records the tally role's verification of a subcategory's
// totals. Every assigned judge must already hold a judge certification;
// otherwise the call fails with a PrerequisiteError listing the
// outstanding judges.
func (e *Engine) VerifyAsTally(ctx context.Context, req VerifyTallyRequest) (domain.CertificationStatus, error) {
	ctx, span := e.tracer.Start(ctx, "engine.verify_tally", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
	))
	defer span.End()
	start := e.now()

	var status domain.CertificationStatus
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid verify request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleTally {
			return &domain.ForbiddenError{Action: "verify as tally"}
		}
		if !signaturesMatch(req.Signature, actor.SignatureName) {
			return &domain.SignatureMismatchError{
				SignerID: actor.ID,
				Provided: req.Signature,
				Hint:     signatureHint(req.Signature, actor.SignatureName, e.config.SignatureHintDistance),
			}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			sub, err := tx.Subcategory(ctx, req.SubcategoryID)
			if err != nil {
				return err
			}
			if _, dup, err := tx.TallyVerification(ctx, sub.ID); err != nil {
				return err
			} else if dup {
				return &domain.AlreadyCertifiedError{SubcategoryID: sub.ID, Stage: domain.StageTallyVerified}
			}
			if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
				return err
			} else if final {
				return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
			}

			outstanding, err := e.outstandingJudges(ctx, tx, sub.ID)
			if err != nil {
				return err
			}
			if pending, err := pendingDiscrepancy(ctx, tx, sub.ID); err != nil {
				return err
			} else if pending != nil {
				outstanding = append(outstanding, "discrepancy case "+pending.ID+" pending resolution")
			}
			if len(outstanding) > 0 {
				return &domain.PrerequisiteError{
					SubcategoryID: sub.ID,
					Stage:         domain.StageTallyVerified,
					Outstanding:   outstanding,
				}
			}

			if err := tx.InsertTallyVerification(ctx, domain.TallyVerification{
				SubcategoryID: sub.ID,
				Signature:     canonicalSignature(req.Signature),
				SignedAt:      e.now(),
			}); err != nil {
				return err
			}
			status, err = e.status(ctx, tx, sub.ID)
			if err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionVerifyTally,
				"subcategory", sub.ID, map[string]string{"stage": string(status.Stage)}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(req.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("verify_tally", start, err)
	return status, err
}

// outstandingJudges lists the assigned judges of a subcategory who have
// not yet certified, formatted for a PrerequisiteError. A subcategory with
// no assigned judges is itself outstanding: there is nothing to verify.
func (e *Engine) outstandingJudges(ctx context.Context, tx ports.Store, subcategoryID string) ([]string, error) {
	judges, err := tx.AssignedJudges(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}
	if len(judges) == 0 {
		return []string{"no judges assigned"}, nil
	}
	certs, err := tx.JudgeCertifications(ctx, subcategoryID)
	if err != nil {
		return nil, err
	}
	certified := make(map[string]bool, len(certs))
	for _, c := range certs {
		certified[c.JudgeID] = true
	}
	var outstanding []string
	for _, j := range judges {
		if !certified[j.ID] {
			outstanding = append(outstanding, "judge "+j.ID+" not certified")
		}
	}
	return outstanding, nil
}

// CertifyFinal records the auditor's final certification for a
// subcategory, or for every subcategory of a category, in one atomic
// unit. It fails with a PrerequisiteError listing every judge in scope
// who has not certified, each subcategory whose tally verification is
// missing, and each discrepancy track still pending. The judge check
// matters after a partial unsign: a surviving tally verification row
// alone does not restore finalization eligibility. Once committed, the
// only way back is the unsign authority.
func (e *Engine) CertifyFinal(ctx context.Context, req CertifyFinalRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.certify_final", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
		attribute.String("category_id", req.CategoryID),
	))
	defer span.End()
	start := e.now()

	var touched []string
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid finalize request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleAuditor {
			return &domain.ForbiddenError{Action: "certify final"}
		}
		if !signaturesMatch(req.Signature, actor.SignatureName) {
			return &domain.SignatureMismatchError{
				SignerID: actor.ID,
				Provided: req.Signature,
				Hint:     signatureHint(req.Signature, actor.SignatureName, e.config.SignatureHintDistance),
			}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			var subs []domain.Subcategory
			scopeID := req.SubcategoryID
			if req.CategoryID != "" {
				scopeID = req.CategoryID
				var err error
				subs, err = tx.SubcategoriesByCategory(ctx, req.CategoryID)
				if err != nil {
					return err
				}
				if len(subs) == 0 {
					return &domain.NotFoundError{Entity: "category", ID: req.CategoryID}
				}
			} else {
				sub, err := tx.Subcategory(ctx, req.SubcategoryID)
				if err != nil {
					return err
				}
				subs = []domain.Subcategory{sub}
			}

			var outstanding []string
			for _, sub := range subs {
				if _, dup, err := tx.FinalCertification(ctx, sub.ID); err != nil {
					return err
				} else if dup {
					return &domain.AlreadyCertifiedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
				}
				missing, err := e.outstandingJudges(ctx, tx, sub.ID)
				if err != nil {
					return err
				}
				outstanding = append(outstanding, missing...)
				if _, tallied, err := tx.TallyVerification(ctx, sub.ID); err != nil {
					return err
				} else if !tallied {
					outstanding = append(outstanding, "subcategory "+sub.ID+" missing tally verification")
				}
				if pending, err := pendingDiscrepancy(ctx, tx, sub.ID); err != nil {
					return err
				} else if pending != nil {
					outstanding = append(outstanding, "subcategory "+sub.ID+" discrepancy case "+pending.ID+" pending resolution")
				}
			}
			if len(outstanding) > 0 {
				return &domain.PrerequisiteError{
					SubcategoryID: scopeID,
					Stage:         domain.StageFinal,
					Outstanding:   outstanding,
				}
			}

			for _, sub := range subs {
				if err := tx.InsertFinalCertification(ctx, domain.FinalCertification{
					SubcategoryID: sub.ID,
					Signature:     canonicalSignature(req.Signature),
					SignedAt:      e.now(),
				}); err != nil {
					return err
				}
				touched = append(touched, sub.ID)
				if err := e.audit.Record(ctx, e.auditEntry(actor.ID, actionCertifyFinal,
					"subcategory", sub.ID, map[string]string{"scope_id": scopeID})); err != nil {
					return err
				}
			}
			return nil
		})
	}()
	if err == nil {
		for _, id := range touched {
			e.tabulator.Invalidate(id)
		}
	} else {
		span.RecordError(err)
	}
	e.observe("certify_final", start, err)
	return err
}

// Unsign reverts certification records within a scope and reopens editing.
// Only certification records are deleted; score entries and deductions
// always survive. A final certification implicated by the scope is deleted
// with it. The operation is restricted to the organizer role and every
// call is audited synchronously before success is reported.
func (e *Engine) Unsign(ctx context.Context, req UnsignRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.unsign", trace.WithAttributes(
		attribute.String("kind", string(req.Kind)),
	))
	defer span.End()
	start := e.now()

	var touched []string
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid unsign request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleOrganizer {
			return &domain.ForbiddenError{Action: "unsign"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			switch req.Kind {
			case UnsignJudge:
				if err := tx.DeleteJudgeCertification(ctx, req.SubcategoryID, req.JudgeID); err != nil {
					return err
				}
				// A final certification depends on the deleted judge
				// certification, so it is implicated and removed too.
				if err := tx.DeleteFinalCertification(ctx, req.SubcategoryID); err != nil {
					return err
				}
				touched = append(touched, req.SubcategoryID)

			case UnsignSubcategory:
				if err := e.unsignSubcategory(ctx, tx, req.SubcategoryID); err != nil {
					return err
				}
				touched = append(touched, req.SubcategoryID)

			case UnsignCategory:
				subs, err := tx.SubcategoriesByCategory(ctx, req.CategoryID)
				if err != nil {
					return err
				}
				for _, sub := range subs {
					if err := e.unsignSubcategory(ctx, tx, sub.ID); err != nil {
						return err
					}
					touched = append(touched, sub.ID)
				}

			case UnsignContestant:
				subs, err := tx.SubcategoriesByContestant(ctx, req.ContestantID)
				if err != nil {
					return err
				}
				for _, sub := range subs {
					if err := e.unsignSubcategory(ctx, tx, sub.ID); err != nil {
						return err
					}
					touched = append(touched, sub.ID)
				}
			}

			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionUnsign,
				"unsign_scope", unsignEntityID(req), map[string]string{
					"kind":           string(req.Kind),
					"subcategory_id": req.SubcategoryID,
					"judge_id":       req.JudgeID,
					"category_id":    req.CategoryID,
					"contestant_id":  req.ContestantID,
				}))
		})
	}()
	if err == nil {
		for _, id := range touched {
			e.tabulator.Invalidate(id)
		}
	} else {
		span.RecordError(err)
	}
	e.observe("unsign", start, err)
	return err
}

// unsignSubcategory deletes every certification record of one subcategory.
func (e *Engine) unsignSubcategory(ctx context.Context, tx ports.Store, subcategoryID string) error {
	certs, err := tx.JudgeCertifications(ctx, subcategoryID)
	if err != nil {
		return err
	}
	for _, c := range certs {
		if err := tx.DeleteJudgeCertification(ctx, subcategoryID, c.JudgeID); err != nil {
			return err
		}
	}
	if err := tx.DeleteTallyVerification(ctx, subcategoryID); err != nil {
		return err
	}
	return tx.DeleteFinalCertification(ctx, subcategoryID)
}

// unsignEntityID picks the audit entity ID for an unsign request.
func unsignEntityID(req UnsignRequest) string {
	switch req.Kind {
	case UnsignCategory:
		return req.CategoryID
	case UnsignContestant:
		return req.ContestantID
	default:
		return req.SubcategoryID
	}
}

// FlagDiscrepancy opens a discrepancy case manually. Permitted for the
// three resolution roles; the case blocks certification transitions for
// its subcategory until approved or rejected.
func (e *Engine) FlagDiscrepancy(ctx context.Context, req FlagDiscrepancyRequest) (domain.DiscrepancyCase, error) {
	ctx, span := e.tracer.Start(ctx, "engine.flag_discrepancy", trace.WithAttributes(
		attribute.String("subcategory_id", req.SubcategoryID),
	))
	defer span.End()
	start := e.now()

	var opened domain.DiscrepancyCase
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid flag request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if _, ok := domain.SlotForRole(actor.Role); !ok {
			return &domain.ForbiddenError{Action: "flag discrepancy"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			sub, err := tx.Subcategory(ctx, req.SubcategoryID)
			if err != nil {
				return err
			}
			if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
				return err
			} else if final {
				return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
			}
			status, err := e.status(ctx, tx, sub.ID)
			if err != nil {
				return err
			}
			opened = domain.DiscrepancyCase{
				ID:            uuid.NewString(),
				SubcategoryID: sub.ID,
				CriterionID:   req.CriterionID,
				ContestantID:  req.ContestantID,
				Reason:        req.Reason,
				State:         domain.DiscrepancyPending,
				RaisedAtStage: status.Stage,
				OpenedBy:      actor.ID,
				OpenedAt:      e.now(),
			}
			if err := tx.UpsertDiscrepancy(ctx, opened); err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionFlagDiscrepancy,
				"discrepancy", opened.ID, map[string]string{
					"subcategory_id": sub.ID,
					"reason":         req.Reason,
				}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(req.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("flag_discrepancy", start, err)
	return opened, err
}

// ApproveDiscrepancy records one of the three independent approvals a
// pending case needs: tally, auditor, and board (the organizer may sign
// the board slot). When the third distinct slot signs, the case closes as
// approved and the main certification track may proceed.
func (e *Engine) ApproveDiscrepancy(ctx context.Context, req ApproveDiscrepancyRequest) (domain.DiscrepancyCase, error) {
	ctx, span := e.tracer.Start(ctx, "engine.approve_discrepancy", trace.WithAttributes(
		attribute.String("case_id", req.CaseID),
	))
	defer span.End()
	start := e.now()

	var updated domain.DiscrepancyCase
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid approval request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		slot, ok := domain.SlotForRole(actor.Role)
		if !ok {
			return &domain.ForbiddenError{Action: "approve discrepancy"}
		}
		if !signaturesMatch(req.Signature, actor.SignatureName) {
			return &domain.SignatureMismatchError{
				SignerID: actor.ID,
				Provided: req.Signature,
				Hint:     signatureHint(req.Signature, actor.SignatureName, e.config.SignatureHintDistance),
			}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			c, found, err := tx.Discrepancy(ctx, req.CaseID)
			if err != nil {
				return err
			}
			if !found {
				return &domain.NotFoundError{Entity: "discrepancy case", ID: req.CaseID}
			}
			if c.State != domain.DiscrepancyPending {
				return fmt.Errorf("discrepancy case %s is %s: %w", c.ID, c.State, domain.ErrConflict)
			}
			if !c.Approve(slot, canonicalSignature(req.Signature)) {
				return fmt.Errorf("slot %s already signed on case %s: %w",
					slot, c.ID, domain.ErrAlreadyCertified)
			}
			if err := tx.UpsertDiscrepancy(ctx, c); err != nil {
				return err
			}
			updated = c
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionApproveDiscrepancy,
				"discrepancy", c.ID, map[string]string{
					"slot":  string(slot),
					"state": string(c.State),
				}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(updated.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("approve_discrepancy", start, err)
	return updated, err
}

// RejectDiscrepancy closes a pending case as rejected, unblocking the
// main certification track without endorsing the flagged scores.
func (e *Engine) RejectDiscrepancy(ctx context.Context, req RejectDiscrepancyRequest) (domain.DiscrepancyCase, error) {
	ctx, span := e.tracer.Start(ctx, "engine.reject_discrepancy", trace.WithAttributes(
		attribute.String("case_id", req.CaseID),
	))
	defer span.End()
	start := e.now()

	var updated domain.DiscrepancyCase
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid rejection request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if _, ok := domain.SlotForRole(actor.Role); !ok {
			return &domain.ForbiddenError{Action: "reject discrepancy"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			c, found, err := tx.Discrepancy(ctx, req.CaseID)
			if err != nil {
				return err
			}
			if !found {
				return &domain.NotFoundError{Entity: "discrepancy case", ID: req.CaseID}
			}
			if c.State != domain.DiscrepancyPending {
				return fmt.Errorf("discrepancy case %s is %s: %w", c.ID, c.State, domain.ErrConflict)
			}
			c.State = domain.DiscrepancyRejected
			if err := tx.UpsertDiscrepancy(ctx, c); err != nil {
				return err
			}
			updated = c
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionRejectDiscrepancy,
				"discrepancy", c.ID, map[string]string{"reason": req.Reason}))
		})
	}()
	if err == nil {
		e.tabulator.Invalidate(updated.SubcategoryID)
	} else {
		span.RecordError(err)
	}
	e.observe("reject_discrepancy", start, err)
	return updated, err
}

// RetireJudge removes a judge from every panel, deleting the judge's open
// certifications along the way. Scores submitted by the judge are
// retained. Subcategories already finalized must be unsigned first; the
// engine refuses to silently cascade through a final certification.
func (e *Engine) RetireJudge(ctx context.Context, req RetireJudgeRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.retire_judge", trace.WithAttributes(
		attribute.String("judge_id", req.JudgeID),
	))
	defer span.End()
	start := e.now()

	var touched []string
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid retire request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleOrganizer {
			return &domain.ForbiddenError{Action: "retire judge"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			subs, err := tx.SubcategoriesByJudge(ctx, req.JudgeID)
			if err != nil {
				return err
			}
			for _, sub := range subs {
				if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
					return err
				} else if final {
					return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
				}
			}
			for _, sub := range subs {
				if err := tx.DeleteJudgeCertification(ctx, sub.ID, req.JudgeID); err != nil {
					return err
				}
				touched = append(touched, sub.ID)
			}
			if err := tx.RemoveJudgeAssignments(ctx, req.JudgeID); err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionRetireJudge,
				"judge", req.JudgeID, map[string]string{
					"subcategories": fmt.Sprintf("%d", len(subs)),
				}))
		})
	}()
	if err == nil {
		for _, id := range touched {
			e.tabulator.Invalidate(id)
		}
	} else {
		span.RecordError(err)
	}
	e.observe("retire_judge", start, err)
	return err
}

// RetireContestant removes a contestant from every subcategory. Scores
// and deductions referencing the contestant are retained for the audit
// trail. Finalized subcategories must be unsigned first.
func (e *Engine) RetireContestant(ctx context.Context, req RetireContestantRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.retire_contestant", trace.WithAttributes(
		attribute.String("contestant_id", req.ContestantID),
	))
	defer span.End()
	start := e.now()

	var touched []string
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid retire request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleOrganizer {
			return &domain.ForbiddenError{Action: "retire contestant"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			subs, err := tx.SubcategoriesByContestant(ctx, req.ContestantID)
			if err != nil {
				return err
			}
			for _, sub := range subs {
				if _, final, err := tx.FinalCertification(ctx, sub.ID); err != nil {
					return err
				} else if final {
					return &domain.LockedError{SubcategoryID: sub.ID, Stage: domain.StageFinal}
				}
				touched = append(touched, sub.ID)
			}
			if err := tx.RemoveContestantAssignments(ctx, req.ContestantID); err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionRetireContestant,
				"contestant", req.ContestantID, map[string]string{
					"subcategories": fmt.Sprintf("%d", len(subs)),
				}))
		})
	}()
	if err == nil {
		for _, id := range touched {
			e.tabulator.Invalidate(id)
		}
	} else {
		span.RecordError(err)
	}
	e.observe("retire_contestant", start, err)
	return err
}

// AdjustCriterionCap raises or lowers a criterion's maximum score without
// rescaling existing entries. Organizer only.
func (e *Engine) AdjustCriterionCap(ctx context.Context, req AdjustCriterionCapRequest) error {
	ctx, span := e.tracer.Start(ctx, "engine.adjust_criterion_cap", trace.WithAttributes(
		attribute.String("criterion_id", req.CriterionID),
	))
	defer span.End()
	start := e.now()

	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid cap request: %w", err)
		}
		actor, err := e.identity.Resolve(ctx, req.ActorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleOrganizer {
			return &domain.ForbiddenError{Action: "adjust criterion cap"}
		}

		return e.store.Atomic(ctx, func(tx ports.Store) error {
			criterion, err := tx.Criterion(ctx, req.CriterionID)
			if err != nil {
				return err
			}
			if err := tx.UpdateCriterionMax(ctx, criterion.ID, req.MaxScore); err != nil {
				return err
			}
			return e.audit.Record(ctx, e.auditEntry(actor.ID, actionAdjustCriterionCap,
				"criterion", criterion.ID, map[string]string{
					"old_max": fmt.Sprintf("%.2f", criterion.MaxScore),
					"new_max": fmt.Sprintf("%.2f", req.MaxScore),
				}))
		})
	}()
	if err != nil {
		span.RecordError(err)
	}
	e.observe("adjust_criterion_cap", start, err)
	return err
}

// CertificationStatus returns the observable pipeline state of a
// subcategory: derived stage, certified and pending judges, and the
// discrepancy track.
func (e *Engine) CertificationStatus(ctx context.Context, subcategoryID string) (domain.CertificationStatus, error) {
	if _, err := e.store.Subcategory(ctx, subcategoryID); err != nil {
		return domain.CertificationStatus{}, err
	}
	return e.status(ctx, e.store, subcategoryID)
}

// Tabulate computes aggregate totals at the requested scope. Subcategory
// results come from the cache; category and contest scopes roll up the
// constituent subcategories, ranking contestants by summed net total with
// creation order as the tie-break.
func (e *Engine) Tabulate(ctx context.Context, req TabulateRequest) (TabulationResult, error) {
	ctx, span := e.tracer.Start(ctx, "engine.tabulate", trace.WithAttributes(
		attribute.String("scope", string(req.Scope)),
		attribute.String("scope_id", req.ScopeID),
	))
	defer span.End()
	start := e.now()

	var result TabulationResult
	err := func() error {
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("invalid tabulate request: %w", err)
		}
		result = TabulationResult{Scope: req.Scope, ScopeID: req.ScopeID}

		var subs []domain.Subcategory
		switch req.Scope {
		case ScopeSubcategory:
			sub, err := e.store.Subcategory(ctx, req.ScopeID)
			if err != nil {
				return err
			}
			subs = []domain.Subcategory{sub}
		case ScopeCategory:
			var err error
			subs, err = e.store.SubcategoriesByCategory(ctx, req.ScopeID)
			if err != nil {
				return err
			}
		case ScopeContest:
			var err error
			subs, err = e.store.SubcategoriesByContest(ctx, req.ScopeID)
			if err != nil {
				return err
			}
		}
		if len(subs) == 0 {
			return &domain.NotFoundError{Entity: string(req.Scope), ID: req.ScopeID}
		}

		contestants := make(map[string]domain.Contestant)
		for _, sub := range subs {
			subResult, err := e.tabulator.Subcategory(ctx, sub.ID)
			if err != nil {
				return err
			}
			result.Subcategories = append(result.Subcategories, subResult)
			assigned, err := e.store.AssignedContestants(ctx, sub.ID)
			if err != nil {
				return err
			}
			for _, c := range assigned {
				contestants[c.ID] = c
			}
		}

		if req.Scope != ScopeSubcategory {
			ordered := make([]domain.Contestant, 0, len(contestants))
			for _, c := range contestants {
				ordered = append(ordered, c)
			}
			sort.Slice(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })
			rollUp := tabulation.RollUp(req.ScopeID, ordered, result.Subcategories)
			result.RollUp = &rollUp
		}
		return nil
	}()
	if err != nil {
		span.RecordError(err)
	}
	e.observe("tabulate", start, err)
	return result, err
}

// checkScoreWriteLock enforces the edit lock for a score write: a final
// certification locks everyone out, a judge certification locks the judge
// out unless the caller is the organizer.
func (e *Engine) checkScoreWriteLock(ctx context.Context, tx ports.Store, subcategoryID, judgeID string, actor domain.Identity) error {
	if _, final, err := tx.FinalCertification(ctx, subcategoryID); err != nil {
		return err
	} else if final {
		return &domain.LockedError{SubcategoryID: subcategoryID, Stage: domain.StageFinal}
	}
	if _, certified, err := tx.JudgeCertification(ctx, subcategoryID, judgeID); err != nil {
		return err
	} else if certified && actor.Role != domain.RoleOrganizer {
		status, err := e.status(ctx, tx, subcategoryID)
		if err != nil {
			return err
		}
		return &domain.LockedError{SubcategoryID: subcategoryID, Stage: status.Stage}
	}
	return nil
}

// requireAssignedJudge verifies the judge sits on the subcategory's panel.
func requireAssignedJudge(ctx context.Context, tx ports.Store, subcategoryID, judgeID string) error {
	judges, err := tx.AssignedJudges(ctx, subcategoryID)
	if err != nil {
		return err
	}
	for _, j := range judges {
		if j.ID == judgeID {
			return nil
		}
	}
	return &domain.ForbiddenError{Action: "act as judge for subcategory " + subcategoryID}
}

// requireAssignedContestant verifies the contestant competes in the
// subcategory.
func requireAssignedContestant(ctx context.Context, tx ports.Store, subcategoryID, contestantID string) error {
	contestants, err := tx.AssignedContestants(ctx, subcategoryID)
	if err != nil {
		return err
	}
	for _, c := range contestants {
		if c.ID == contestantID {
			return nil
		}
	}
	return &domain.NotFoundError{Entity: "contestant assignment", ID: contestantID}
}
