// Package redisstore keeps grades in redis: one hash per grade, a sorted set
// of ids and a counter for fresh ids.
package redisstore

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bigredeye/gradebook/internal/config"
	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/validation"
)

const (
	fieldName  = "name"
	fieldScore = "score"
)

// raiseSequence moves the id counter up to ARGV[1] if it is behind.
var raiseSequence = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local wanted = tonumber(ARGV[1])
if wanted > current then
	redis.call('SET', KEYS[1], wanted)
end
return 0
`)

type Store struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

var _ store.Store = (*Store)(nil)

func Connect(ctx context.Context, conf *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "Failed to ping redis at %s", conf.Redis.Addr)
	}
	return client, nil
}

func New(client *redis.Client, prefix string, logger *zap.Logger) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger.With(lf.Module("redis")),
	}
}

func (s *Store) idsKey() string {
	return s.prefix + ":grades"
}

func (s *Store) sequenceKey() string {
	return s.prefix + ":grades:seq"
}

func (s *Store) gradeKey(id uint) string {
	return s.prefix + ":grade:" + strconv.FormatUint(uint64(id), 10)
}

func parseGrade(id uint, fields map[string]string) (*models.Grade, error) {
	score, err := strconv.ParseFloat(fields[fieldScore], 64)
	if err != nil {
		return nil, errors.Wrapf(err, "Malformed score of grade %d", id)
	}
	return &models.Grade{ID: id, Name: fields[fieldName], Score: score}, nil
}

func (s *Store) ListGrades(ctx context.Context) ([]models.Grade, error) {
	return s.SearchGrades(ctx, "")
}

func (s *Store) SearchGrades(ctx context.Context, keyword string) ([]models.Grade, error) {
	members, err := s.client.ZRangeByScore(ctx, s.idsKey(), &redis.ZRangeBy{Min: "-inf", Max: "+inf"}).Result()
	if err != nil {
		return nil, errors.Wrap(err, "Failed to list grade ids")
	}

	ids := make([]uint, 0, len(members))
	cmds := make([]*redis.StringStringMapCmd, 0, len(members))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, member := range members {
			id, err := strconv.ParseUint(member, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "Malformed grade id %q", member)
			}
			ids = append(ids, uint(id))
			cmds = append(cmds, pipe.HGetAll(ctx, s.gradeKey(uint(id))))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Failed to load grades")
	}

	grades := make([]models.Grade, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			s.logger.Warn("Dangling grade id", lf.GradeID(ids[i]))
			continue
		}
		if !strings.Contains(fields[fieldName], keyword) {
			continue
		}
		grade, err := parseGrade(ids[i], fields)
		if err != nil {
			return nil, err
		}
		grades = append(grades, *grade)
	}
	return grades, nil
}

func (s *Store) FindGrade(ctx context.Context, id uint) (*models.Grade, error) {
	fields, err := s.client.HGetAll(ctx, s.gradeKey(id)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load grade %d", id)
	}
	if len(fields) == 0 {
		return nil, store.ErrNotFound
	}
	return parseGrade(id, fields)
}

func (s *Store) SaveGrade(ctx context.Context, grade *models.Grade) (*models.Grade, error) {
	if err := validation.Check(grade); err != nil {
		return nil, err
	}

	saved := *grade
	if saved.IsNew() {
		id, err := s.client.Incr(ctx, s.sequenceKey()).Result()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to allocate grade id")
		}
		saved.ID = uint(id)
	} else {
		err := raiseSequence.Run(ctx, s.client, []string{s.sequenceKey()}, uint64(saved.ID)).Err()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to advance grade id sequence")
		}
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.gradeKey(saved.ID),
			fieldName, saved.Name,
			fieldScore, strconv.FormatFloat(saved.Score, 'g', -1, 64),
		)
		pipe.ZAdd(ctx, s.idsKey(), &redis.Z{
			Score:  float64(saved.ID),
			Member: strconv.FormatUint(uint64(saved.ID), 10),
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to save grade %d", saved.ID)
	}
	return &saved, nil
}

func (s *Store) DeleteGrade(ctx context.Context, id uint) error {
	return s.DeleteGrades(ctx, []uint{id})
}

func (s *Store) DeleteGrades(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, s.gradeKey(id))
			pipe.ZRem(ctx, s.idsKey(), strconv.FormatUint(uint64(id), 10))
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "Failed to delete grades")
	}
	return nil
}
