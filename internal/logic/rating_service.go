package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/openmohaa/rating-api/internal/config"
	"github.com/openmohaa/rating-api/internal/elo"
	"github.com/openmohaa/rating-api/internal/models"
	"github.com/openmohaa/rating-api/internal/trueskill"
)

// gaussianEloWeight weights the newest result for the Gaussian Elo engine;
// K becomes beta*sqrt(pi).
const gaussianEloWeight = 1.0

type RatingServiceConfig struct {
	Presets     config.Presets
	Engine      string // default engine for requests that do not name one
	Options     trueskill.Options
	Parallelism int // concurrent matches in a batch
	Logger      *zap.Logger
}

type ratingService struct {
	presets       config.Presets
	defaultEngine string
	graph         *trueskill.FactorGraphCalculator
	auto          *trueskill.AutoCalculator
	parallelism   int
	logger        *zap.SugaredLogger
}

func NewRatingService(cfg RatingServiceConfig) RatingService {
	if cfg.Engine == "" {
		cfg.Engine = config.EngineAuto
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}
	if cfg.Presets == nil {
		cfg.Presets = config.Presets{config.DefaultPreset: trueskill.DefaultGameInfo()}
	}
	return &ratingService{
		presets:       cfg.Presets,
		defaultEngine: cfg.Engine,
		graph:         trueskill.NewFactorGraphCalculator(cfg.Options),
		auto:          trueskill.NewAutoCalculator(cfg.Options),
		parallelism:   cfg.Parallelism,
		logger:        cfg.Logger.Sugar(),
	}
}

func (s *ratingService) calculator(name string, game trueskill.GameInfo) (trueskill.Calculator, error) {
	if name == "" {
		name = s.defaultEngine
	}
	switch name {
	case config.EngineAuto:
		return s.auto, nil
	case config.EngineFactorGraph:
		return s.graph, nil
	case config.EngineTwoTeam:
		return trueskill.TwoTeamCalculator{}, nil
	case config.EngineEloFIDE:
		return elo.NewFIDE(false), nil
	case config.EngineEloGaussian:
		return elo.NewGaussian(game, gaussianEloWeight), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, name)
	}
}

// resolveGame starts from the named preset and applies any overrides.
func (s *ratingService) resolveGame(req *models.MatchRequest) (trueskill.GameInfo, error) {
	game, ok := s.presets.Lookup(req.Preset)
	if !ok {
		return trueskill.GameInfo{}, fmt.Errorf("%w %q", ErrUnknownPreset, req.Preset)
	}
	if o := req.Game; o != nil {
		if o.InitialMean != nil {
			game.InitialMean = *o.InitialMean
		}
		if o.InitialStdDev != nil {
			game.InitialStdDev = *o.InitialStdDev
		}
		if o.Beta != nil {
			game.Beta = *o.Beta
		}
		if o.DynamicsFactor != nil {
			game.DynamicsFactor = *o.DynamicsFactor
		}
		if o.DrawProbability != nil {
			game.DrawProbability = *o.DrawProbability
		}
	}
	return game, nil
}

// toTeams converts the request, filling in the game's prior for players
// without history.
func toTeams(req *models.MatchRequest, game trueskill.GameInfo) ([]trueskill.Team, []int) {
	prior := game.DefaultRating()
	teams := make([]trueskill.Team, len(req.Teams))
	ranks := make([]int, len(req.Teams))
	for i, t := range req.Teams {
		team := trueskill.NewTeam()
		for _, p := range t.Players {
			r := prior
			if p.Mean != nil {
				r.Mean = *p.Mean
			}
			if p.StdDev != nil {
				r.StdDev = *p.StdDev
			}
			weight := 1.0
			if p.Weight != nil {
				weight = *p.Weight
			}
			team.AddPartial(trueskill.PlayerID(p.ID), r, weight)
		}
		teams[i] = *team
		ranks[i] = t.Rank
	}
	return teams, ranks
}

func (s *ratingService) prepare(req *models.MatchRequest) (trueskill.Calculator, trueskill.GameInfo, []trueskill.Team, []int, error) {
	game, err := s.resolveGame(req)
	if err != nil {
		return nil, game, nil, nil, err
	}
	calc, err := s.calculator(req.Engine, game)
	if err != nil {
		return nil, game, nil, nil, err
	}
	teams, ranks := toTeams(req, game)
	return calc, game, teams, ranks, nil
}

func (s *ratingService) fail(op string, req *models.MatchRequest, err error) error {
	kind := ErrorKind(err)
	ratingFailures.WithLabelValues(kind).Inc()
	if kind == KindInternal || kind == KindNumeric || kind == KindNotConverged {
		s.logger.Warnw("Rating failed", "operation", op, "matchId", req.MatchID, "kind", kind, "error", err)
	} else {
		s.logger.Infow("Rating rejected", "operation", op, "matchId", req.MatchID, "kind", kind, "error", err)
	}
	return err
}

// Rate computes posterior ratings for one match.
func (s *ratingService) Rate(ctx context.Context, req *models.MatchRequest) (*models.RateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("rate", req, err)
	}
	calc, game, teams, ranks, err := s.prepare(req)
	if err != nil {
		return nil, s.fail("rate", req, err)
	}

	start := time.Now()
	res, err := calc.CalculateNewRatings(game, teams, ranks)
	computeDuration.WithLabelValues("rate").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.fail("rate", req, err)
	}

	matchesRated.WithLabelValues(res.Engine).Inc()
	if res.Iterations > 0 {
		convergenceIterations.Observe(float64(res.Iterations))
	}
	s.logger.Debugw("Match rated",
		"matchId", req.MatchID,
		"engine", res.Engine,
		"teams", len(teams),
		"iterations", res.Iterations,
		"duration", time.Since(start),
	)

	out := &models.RateResponse{
		MatchID:            req.MatchID,
		Ratings:            make(map[string]models.RatingOutput, len(res.Ratings)),
		Iterations:         res.Iterations,
		OutcomeProbability: res.OutcomeProbability,
		Engine:             res.Engine,
	}
	for id, r := range res.Ratings {
		out.Ratings[string(id)] = models.RatingOutput{Mean: r.Mean, StdDev: r.StdDev, Conservative: r.Conservative()}
	}
	return out, nil
}

// Quality scores how evenly matched the teams are. Ranks are ignored.
func (s *ratingService) Quality(ctx context.Context, req *models.MatchRequest) (*models.QualityResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, s.fail("quality", req, err)
	}
	calc, game, teams, _, err := s.prepare(req)
	if err != nil {
		return nil, s.fail("quality", req, err)
	}

	start := time.Now()
	q, err := calc.CalculateMatchQuality(game, teams)
	computeDuration.WithLabelValues("quality").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, s.fail("quality", req, err)
	}
	return &models.QualityResponse{Quality: q.Quality, LogEvidence: q.LogEvidence, Engine: calc.Name()}, nil
}

// RateBatch rates independent matches in parallel. A failing match does not
// affect the others; its error is reported in its slot.
func (s *ratingService) RateBatch(ctx context.Context, matches []models.MatchRequest) *models.BatchResponse {
	out := &models.BatchResponse{Results: make([]models.BatchItem, len(matches))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range matches {
		i := i
		out.Results[i] = models.BatchItem{Index: i, RequestID: uuid.NewString()}
		g.Go(func() error {
			res, err := s.Rate(gctx, &matches[i])
			if err != nil {
				out.Results[i].Error = err.Error()
				return nil
			}
			out.Results[i].Result = res
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range out.Results {
		if item.Error != "" {
			out.Failed++
		}
	}
	s.logger.Infow("Batch rated", "matches", len(matches), "failed", out.Failed)
	return out
}

func (s *ratingService) Presets() []models.PresetOutput {
	names := s.presets.Names()
	out := make([]models.PresetOutput, 0, len(names))
	for _, name := range names {
		g := s.presets[name]
		out = append(out, models.PresetOutput{
			Name:            name,
			InitialMean:     g.InitialMean,
			InitialStdDev:   g.InitialStdDev,
			Beta:            g.Beta,
			DynamicsFactor:  g.DynamicsFactor,
			DrawProbability: g.DrawProbability,
		})
	}
	return out
}
