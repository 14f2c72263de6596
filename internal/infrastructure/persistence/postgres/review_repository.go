package postgres

import (
	"context"

	"github.com/mentorhub/mentorship-hub/internal/domain/review"
	"github.com/mentorhub/mentorship-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// ReviewRepository implements review.Repository.
type ReviewRepository struct {
	db Querier
}

// NewReviewRepository creates a repository over the given querier.
func NewReviewRepository(db Querier) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, mentor_id, mentee_id, rating, comment, created_at`

// Create stores a review.
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rev.ID, string(rev.MentorID), string(rev.MenteeID),
		float64(rev.Rating), rev.Comment, rev.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrMentorNotFound
		}
		return shared.WrapError("postgres", "CreateReview", shared.ErrPersistence, "write failed", err)
	}
	return nil
}

// ListByMentor returns a mentor's reviews, newest first.
func (r *ReviewRepository) ListByMentor(ctx context.Context, mentorID shared.UserID) ([]*review.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE mentor_id = $1 ORDER BY created_at DESC`,
		string(mentorID))
	if err != nil {
		return nil, shared.WrapError("postgres", "ListReviews", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	var out []*review.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, shared.WrapError("postgres", "ListReviews", shared.ErrPersistence, "scan failed", err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

// AggregateByMentor returns the rating summary, or nil with no error
// when the mentor has no reviews. Callers distinguish "no data" from a
// genuine zero this way.
func (r *ReviewRepository) AggregateByMentor(ctx context.Context, mentorID shared.UserID) (*review.RatingSummary, error) {
	var avg float64
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE mentor_id = $1`,
		string(mentorID)).Scan(&avg, &count)
	if err != nil {
		return nil, shared.WrapError("postgres", "AggregateReviews", shared.ErrPersistence, "query failed", err)
	}
	if count == 0 {
		return nil, nil
	}
	return &review.RatingSummary{Avg: avg, Count: count}, nil
}

// AggregateByMentors returns summaries keyed by mentor id. Mentors with
// no reviews are absent from the map.
func (r *ReviewRepository) AggregateByMentors(ctx context.Context, mentorIDs []shared.UserID) (map[shared.UserID]*review.RatingSummary, error) {
	out := make(map[shared.UserID]*review.RatingSummary, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}

	raw := make([]string, 0, len(mentorIDs))
	for _, id := range mentorIDs {
		raw = append(raw, string(id))
	}

	rows, err := r.db.Query(ctx, `
		SELECT mentor_id, AVG(rating), COUNT(*)
		FROM reviews WHERE mentor_id = ANY($1)
		GROUP BY mentor_id`, raw)
	if err != nil {
		return nil, shared.WrapError("postgres", "AggregateReviews", shared.ErrPersistence, "query failed", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mentorID string
		var summary review.RatingSummary
		if err := rows.Scan(&mentorID, &summary.Avg, &summary.Count); err != nil {
			return nil, shared.WrapError("postgres", "AggregateReviews", shared.ErrPersistence, "scan failed", err)
		}
		out[shared.UserID(mentorID)] = &summary
	}
	return out, rows.Err()
}

func scanReview(row rowScanner) (*review.Review, error) {
	var rev review.Review
	var mentorID, menteeID string
	var rating float64
	if err := row.Scan(&rev.ID, &mentorID, &menteeID, &rating, &rev.Comment, &rev.CreatedAt); err != nil {
		return nil, err
	}
	rev.MentorID = shared.UserID(mentorID)
	rev.MenteeID = shared.UserID(menteeID)
	rev.Rating = shared.Rating(rating)
	return &rev, nil
}
