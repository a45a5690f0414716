package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/hearthline/hearthline/internal/analysis"
	"github.com/hearthline/hearthline/internal/models"
	mongorepo "github.com/hearthline/hearthline/internal/repositories/mongo"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/utils"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// ReviewStream is the Redis stream the finalizer enqueues second-opinion
// jobs on; the review worker pool consumes it.
const ReviewStream = "reports:review"

// EngineConfig is the tunable analysis configuration injected into every new
// session: lexicons and thresholds are data, not code.
type EngineConfig struct {
	Lexicon    *analysis.Lexicon
	Weights    analysis.SentimentWeights
	Thresholds analysis.Thresholds
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Lexicon:    analysis.DefaultLexicon(),
		Weights:    analysis.DefaultWeights(),
		Thresholds: analysis.DefaultThresholds(),
	}
}

type CallService interface {
	Start(ctx context.Context, residentID, channel string, callCtx *models.CallContext) (*models.Call, error)
	Get(ctx context.Context, callID string) (*models.Call, error)
	ListByResident(ctx context.Context, residentID string, limit int64) ([]models.Call, error)

	TrackUserUtterance(callID, text string, at time.Time, latencyMS int64) error
	TrackAssistantResponse(callID, text string, at time.Time) (recorded bool, err error)
	TrackInterruption(callID string, at time.Time) error
	TrackFunctionCall(callID, name string, args map[string]any, at time.Time) error

	End(ctx context.Context, callID string) (*models.CallReport, error)
}

type callService struct {
	calls       mongorepo.CallRepository
	transcripts pgrepo.TranscriptRepo
	reports     pgrepo.ReportRepo
	redis       *redis.Client
	engine      EngineConfig
	log         *logrus.Logger

	// live holds one engine session per active call. The map is guarded; the
	// sessions themselves are single-owner and driven in event order by the
	// ingest connection.
	mu   sync.Mutex
	live map[string]*liveCall
}

type liveCall struct {
	session    *analysis.Session
	residentID string
}

func NewCallService(
	calls mongorepo.CallRepository,
	transcripts pgrepo.TranscriptRepo,
	reports pgrepo.ReportRepo,
	rdb *redis.Client,
	engine EngineConfig,
	log *logrus.Logger,
) CallService {
	if engine.Lexicon == nil {
		engine = DefaultEngineConfig()
	}
	if log == nil {
		log = logrus.New()
	}
	return &callService{
		calls:       calls,
		transcripts: transcripts,
		reports:     reports,
		redis:       rdb,
		engine:      engine,
		log:         log,
		live:        map[string]*liveCall{},
	}
}

func (s *callService) Start(ctx context.Context, residentID, channel string, callCtx *models.CallContext) (*models.Call, error) {
	const op = "CallService.Start"

	if residentID == "" || channel == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resident_id and channel are required", nil)
	}

	now := time.Now().UTC()
	call := &models.Call{
		CallID:     uuid.NewString(),
		ResidentID: residentID,
		Channel:    channel,
		Status:     "active",
		Context:    callCtx,
		CreatedAt:  now,
	}

	if err := s.calls.Create(ctx, call); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create call", err)
	}

	session := analysis.NewSession(call.CallID, now, s.engine.Lexicon, s.engine.Weights, s.engine.Thresholds, s.log)
	s.mu.Lock()
	s.live[call.CallID] = &liveCall{session: session, residentID: residentID}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"call_id": call.CallID, "resident_id": residentID}).Info("call started")
	return call, nil
}

func (s *callService) Get(ctx context.Context, callID string) (*models.Call, error) {
	const op = "CallService.Get"

	if callID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "call_id is required", nil)
	}

	out, err := s.calls.GetByCallID(ctx, callID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "call not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get call", err)
	}
	return out, nil
}

func (s *callService) ListByResident(ctx context.Context, residentID string, limit int64) ([]models.Call, error) {
	const op = "CallService.ListByResident"

	if residentID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "resident_id is required", nil)
	}
	out, err := s.calls.ListByResident(ctx, residentID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list calls", err)
	}
	return out, nil
}

func (s *callService) session(op, callID string) (*liveCall, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lc := s.live[callID]
	if lc == nil {
		return nil, utils.E(utils.CodeNotFound, op, "no active session for call", nil)
	}
	return lc, nil
}

// trackErr maps engine failures onto the error contract: tracking after
// close is a collaborator ordering bug and surfaces as a conflict; malformed
// events are invalid arguments.
func trackErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, analysis.ErrSessionClosed) {
		return utils.E(utils.CodeConflict, op, "call already ended", err)
	}
	return utils.E(utils.CodeInvalidArgument, op, "event rejected", err)
}

func (s *callService) TrackUserUtterance(callID, text string, at time.Time, latencyMS int64) error {
	const op = "CallService.TrackUserUtterance"
	lc, err := s.session(op, callID)
	if err != nil {
		return err
	}
	return trackErr(op, lc.session.TrackUserUtterance(text, at, latencyMS))
}

func (s *callService) TrackAssistantResponse(callID, text string, at time.Time) (bool, error) {
	const op = "CallService.TrackAssistantResponse"
	lc, err := s.session(op, callID)
	if err != nil {
		return false, err
	}
	recorded, err := lc.session.TrackAssistantResponse(text, at)
	return recorded, trackErr(op, err)
}

func (s *callService) TrackInterruption(callID string, at time.Time) error {
	const op = "CallService.TrackInterruption"
	lc, err := s.session(op, callID)
	if err != nil {
		return err
	}
	return trackErr(op, lc.session.TrackInterruption(at))
}

func (s *callService) TrackFunctionCall(callID, name string, args map[string]any, at time.Time) error {
	const op = "CallService.TrackFunctionCall"
	lc, err := s.session(op, callID)
	if err != nil {
		return err
	}
	return trackErr(op, lc.session.TrackFunctionCall(name, args, at))
}

// End closes the engine session, reduces it to the summary and caregiver
// insights, persists the report and transcript, enqueues the LLM second
// opinion, and publishes any immediate alerts.
func (s *callService) End(ctx context.Context, callID string) (*models.CallReport, error) {
	const op = "CallService.End"

	lc, err := s.session(op, callID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := lc.session.End(now); err != nil {
		return nil, trackErr(op, err)
	}

	summary := lc.session.GenerateSummary()
	insights := lc.session.GenerateCaregiverInsights()

	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode summary", err)
	}
	insightsJSON, err := json.Marshal(insights)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to encode insights", err)
	}

	report := &models.CallReport{
		CallID:              callID,
		ResidentID:          lc.residentID,
		RiskLevel:           string(insights.Risk.Level),
		Summary:             datatypes.JSON(summaryJSON),
		Insights:            datatypes.JSON(insightsJSON),
		SecondOpinionStatus: "pending",
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.reports.Insert(ctx, report); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to store report", err)
	}

	if err := s.calls.End(ctx, callID, now, summary.CallMetadata.DurationSeconds); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to end call", err)
	}

	if err := s.persistTranscript(ctx, lc); err != nil {
		// the report is already stored; a transcript failure should not
		// swallow it
		s.log.WithError(err).WithField("call_id", callID).Error("failed to persist transcript")
	}

	s.publishAlerts(ctx, callID, insights)
	s.enqueueReview(ctx, callID, lc.residentID)

	s.mu.Lock()
	delete(s.live, callID)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"call_id":    callID,
		"risk_level": report.RiskLevel,
		"duration_s": summary.CallMetadata.DurationSeconds,
	}).Info("call ended")
	return report, nil
}

func (s *callService) persistTranscript(ctx context.Context, lc *liveCall) error {
	interactions := lc.session.Interactions()
	entries := make([]models.TranscriptEntry, 0, len(interactions))
	for _, in := range interactions {
		derived, err := json.Marshal(in)
		if err != nil {
			continue
		}
		entries = append(entries, models.TranscriptEntry{
			ID:         uuid.NewString(),
			ResidentID: lc.residentID,
			CallID:     lc.session.CallID,
			Role:       string(in.Type),
			Text:       in.Text,
			Derived:    datatypes.JSON(derived),
			Timestamp:  in.Timestamp,
		})
	}
	return s.transcripts.InsertBatch(ctx, entries)
}

func (s *callService) publishAlerts(ctx context.Context, callID string, insights analysis.CaregiverInsights) {
	if s.redis == nil || len(insights.ImmediateAlerts) == 0 {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":       "immediate_alerts",
		"call_id":    callID,
		"risk_level": insights.Risk.Level,
		"alerts":     insights.ImmediateAlerts,
	})
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, "call:"+callID+":alerts", payload).Err(); err != nil {
		s.log.WithError(err).WithField("call_id", callID).Warn("failed to publish alerts")
	}
}

func (s *callService) enqueueReview(ctx context.Context, callID, residentID string) {
	if s.redis == nil {
		return
	}
	err := s.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: ReviewStream,
		Values: map[string]any{
			"call_id":     callID,
			"resident_id": residentID,
			"ts_unix":     time.Now().UTC().Unix(),
		},
	}).Err()
	if err != nil {
		s.log.WithError(err).WithField("call_id", callID).Warn("failed to enqueue review job")
		_ = s.reports.SetSecondOpinion(ctx, callID, nil, "skipped")
	}
}
