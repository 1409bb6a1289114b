package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oakline-signs/site-backend/internal/contact/domain"
)

const (
	submissionKeyPrefix = "contact:submission:"        // Hash per submission: doc, sec, usec, seq
	recentSetKey        = "contact:submissions:recent" // Sorted set of ids scored by insertion seq
	seqKey              = "contact:submissions:seq"    // Insertion counter
	clockKey            = "contact:submissions:clock"  // Last created_at handed out (sec, usec)
)

// createScriptSrc assigns seq and created_at and writes the record in one step,
// so readers either see the whole submission or nothing. created_at is
// clamped to the previous stamp to stay non-decreasing in seq order.
// replicate_commands lets the script write after TIME on Redis < 5; later
// versions always replicate effects and treat it as a no-op.
const createScriptSrc = `
redis.replicate_commands()
local seq = redis.call('INCR', KEYS[1])
local t = redis.call('TIME')
local sec = tonumber(t[1])
local usec = tonumber(t[2])
local last = redis.call('HMGET', KEYS[2], 'sec', 'usec')
if last[1] then
	local lsec = tonumber(last[1])
	local lusec = tonumber(last[2])
	if sec < lsec or (sec == lsec and usec < lusec) then
		sec = lsec
		usec = lusec
	end
end
redis.call('HSET', KEYS[2], 'sec', sec, 'usec', usec)
redis.call('HSET', KEYS[3], 'doc', ARGV[1], 'sec', sec, 'usec', usec, 'seq', seq)
redis.call('ZADD', KEYS[4], seq, ARGV[2])
return {seq, sec, usec}
`

var createScript = redis.NewScript(createScriptSrc)

// RedisSubmissionRepository persists contact submissions in Redis.
type RedisSubmissionRepository struct {
	client *redis.Client
}

// NewRedisSubmissionRepository creates a new RedisSubmissionRepository
func NewRedisSubmissionRepository(client *redis.Client) *RedisSubmissionRepository {
	return &RedisSubmissionRepository{client: client}
}

// Create stores the submission and returns it with id and created_at set.
func (r *RedisSubmissionRepository) Create(ctx context.Context, p domain.Payload) (*domain.Submission, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("generate id: %w", err)}
	}

	doc, err := json.Marshal(p)
	if err != nil {
		return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("failed to marshal submission: %w", err)}
	}

	keys := []string{seqKey, clockKey, r.submissionKey(id.String()), recentSetKey}
	res, err := createScript.Run(ctx, r.client, keys, string(doc), id.String()).Int64Slice()
	if err != nil {
		return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("failed to create submission: %w", err)}
	}
	if len(res) != 3 {
		return nil, &domain.StorageError{Op: "create", Err: fmt.Errorf("unexpected script reply: %v", res)}
	}

	return domain.NewSubmission(id.String(), p, stamp(res[1], res[2])), nil
}

// ListRecent returns the newest submissions first.
func (r *RedisSubmissionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Submission, error) {
	if limit <= 0 {
		limit = domain.DefaultRecentLimit
	}

	ids, err := r.client.ZRevRange(ctx, recentSetKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, &domain.StorageError{Op: "list", Err: fmt.Errorf("failed to list submissions: %w", err)}
	}
	if len(ids) == 0 {
		return []domain.Submission{}, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.SliceCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HMGet(ctx, r.submissionKey(id), "doc", "sec", "usec")
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, &domain.StorageError{Op: "list", Err: fmt.Errorf("failed to load submissions: %w", err)}
	}

	out := make([]domain.Submission, 0, len(ids))
	for i, id := range ids {
		s, err := decodeSubmission(id, cmds[i].Val())
		if err != nil {
			return nil, &domain.StorageError{Op: "list", Err: err}
		}
		out = append(out, *s)
	}
	return out, nil
}

// Get loads one submission by id.
func (r *RedisSubmissionRepository) Get(ctx context.Context, id string) (*domain.Submission, error) {
	vals, err := r.client.HMGet(ctx, r.submissionKey(id), "doc", "sec", "usec").Result()
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Err: fmt.Errorf("failed to get submission: %w", err)}
	}
	if len(vals) == 0 || vals[0] == nil {
		return nil, domain.ErrSubmissionNotFound
	}
	s, err := decodeSubmission(id, vals)
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Err: err}
	}
	return s, nil
}

// Ping reports whether the Redis server is reachable.
func (r *RedisSubmissionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func decodeSubmission(id string, vals []interface{}) (*domain.Submission, error) {
	if len(vals) != 3 {
		return nil, fmt.Errorf("submission %s: unexpected field count %d", id, len(vals))
	}
	doc, ok := vals[0].(string)
	if !ok {
		return nil, errors.New("submission " + id + ": missing document")
	}

	var p domain.Payload
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission %s: %w", id, err)
	}

	sec, err := parseInt(vals[1])
	if err != nil {
		return nil, fmt.Errorf("submission %s: bad created_at: %w", id, err)
	}
	usec, err := parseInt(vals[2])
	if err != nil {
		return nil, fmt.Errorf("submission %s: bad created_at: %w", id, err)
	}

	return domain.NewSubmission(id, p, stamp(sec, usec)), nil
}

func parseInt(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected value %v", v)
	}
	return strconv.ParseInt(s, 10, 64)
}

func stamp(sec, usec int64) time.Time {
	return time.Unix(sec, usec*int64(time.Microsecond)).UTC()
}

func (r *RedisSubmissionRepository) submissionKey(id string) string {
	return fmt.Sprintf("%s%s", submissionKeyPrefix, id)
}
