// Package redis publishes mirror events on Redis channels and keeps a capped buffer of
// recent events per channel for subscribers that reconnect.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

const (
	KindReorg = "reorg"
	KindAudit = "audit"

	defaultBufferLimit int64 = 1000
)

type (
	Metrics interface {
		Observe(event string, err error, started time.Time)
	}
)

// Event is a buffered message; Score is its publish time in Unix milliseconds, bumped
// so that scores within a channel are strictly increasing.
type Event struct {
	Payload json.RawMessage `json:"payload"`
	Score   float64         `json:"score"`
}

// AuditSummary is the published form of a consistency report.
type AuditSummary struct {
	CheckTime            time.Time          `json:"check_time"`
	StartHeight          uint64             `json:"start_height"`
	EndHeight            uint64             `json:"end_height"`
	Checked              uint64             `json:"checked"`
	Percentage           float64            `json:"percentage"`
	TotalInconsistencies int                `json:"total_inconsistencies"`
	MissingBlocks        int                `json:"missing_blocks"`
	Status               model.ReportStatus `json:"status"`
}

// Publisher sends reorg and audit events for one network.
type Publisher struct {
	client      *redis.Client
	metrics     Metrics
	network     model.Network
	bufferLimit int64
	now         func() time.Time

	mu        sync.Mutex
	lastScore int64
}

// NewPublisher connects to the Redis server at url (redis://...). A non-positive
// bufferLimit keeps the default of 1000 events per channel.
func NewPublisher(url string, network model.Network, metrics Metrics, bufferLimit int64) (*Publisher, error) {
	if url == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if bufferLimit <= 0 {
		bufferLimit = defaultBufferLimit
	}
	return &Publisher{
		client:      redis.NewClient(opts),
		metrics:     metrics,
		network:     network,
		bufferLimit: bufferLimit,
		now:         time.Now,
	}, nil
}

// Ping checks the connection.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}

// Close closes the client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Channel returns the channel name events of kind are published on.
func Channel(network model.Network, kind string) string {
	return fmt.Sprintf("blockmirror:%s:%s", network, kind)
}

func bufferKey(network model.Network, kind string) string {
	return Channel(network, kind) + ":events"
}

// PublishReorg announces a chain truncation.
func (p *Publisher) PublishReorg(ctx context.Context, event model.ReorgEvent) error {
	return p.publish(ctx, KindReorg, event)
}

// PublishAudit announces the outcome of a consistency audit.
func (p *Publisher) PublishAudit(ctx context.Context, report model.ConsistencyReport) error {
	return p.publish(ctx, KindAudit, summarize(report))
}

func summarize(report model.ConsistencyReport) AuditSummary {
	return AuditSummary{
		CheckTime:            report.CheckTime,
		StartHeight:          report.BlocksChecked.StartHeight,
		EndHeight:            report.BlocksChecked.EndHeight,
		Checked:              report.BlocksChecked.Total,
		Percentage:           report.Consistency.Percentage,
		TotalInconsistencies: report.Consistency.TotalInconsistencies,
		MissingBlocks:        report.Consistency.MissingBlocks,
		Status:               report.Status,
	}
}

// publish buffers payload in a capped sorted set and sends "<score>:<payload>" on the
// channel, both in one pipeline.
func (p *Publisher) publish(ctx context.Context, kind string, payload any) (err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(kind, err, started)
	}()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", kind, err)
	}
	score := p.nextScore()
	key := bufferKey(p.network, kind)

	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: string(data)})
		pipe.ZRemRangeByRank(ctx, key, 0, -p.bufferLimit-1)
		pipe.Publish(ctx, Channel(p.network, kind), formatMessage(score, data))
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", kind, err)
	}
	return nil
}

// nextScore returns the current Unix millisecond, or one past the previous score when
// the clock has not advanced. Millisecond integers stay exact in a float64 score.
func (p *Publisher) nextScore() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	score := p.now().UnixMilli()
	if score <= p.lastScore {
		score = p.lastScore + 1
	}
	p.lastScore = score
	return float64(score)
}

func formatMessage(score float64, data []byte) string {
	return fmt.Sprintf("%.0f:%s", score, data)
}

// RecentEvents returns buffered events of kind published after since, oldest first.
func (p *Publisher) RecentEvents(ctx context.Context, kind string, since float64) ([]Event, error) {
	results, err := p.client.ZRangeByScoreWithScores(ctx, bufferKey(p.network, kind), &redis.ZRangeBy{
		Min: fmt.Sprintf("(%f", since),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent %s events: %w", kind, err)
	}

	events := make([]Event, 0, len(results))
	for _, result := range results {
		member, ok := result.Member.(string)
		if !ok {
			continue
		}
		events = append(events, Event{Payload: json.RawMessage(member), Score: result.Score})
	}
	return events, nil
}
