package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
)

// Stats runs one grouped count over the owner's records and derives the
// dashboard metrics from it.
func (s *ApplicationService) Stats(ctx context.Context, ownerID string) (*dtos.StatsResponse, error) {
	cur, err := s.coll.Aggregate(ctx, statsPipeline(ownerID))
	if err != nil {
		return nil, err
	}

	var rows []struct {
		Status models.Status `bson:"_id"`
		Count  int64         `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return buildSummary(ownerID, counts), nil
}

func statsPipeline(ownerID string) []bson.M {
	return []bson.M{
		{"$match": bson.M{"userId": ownerID}},
		{"$group": bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}},
	}
}

// buildSummary derives the stats payload from per-status counts. All six
// statuses are always present in the result, zero-filled when absent. An
// owner with no records gets an all-zero summary, never a division error.
func buildSummary(ownerID string, counts map[models.Status]int64) *dtos.StatsResponse {
	statusCounts := make(map[models.Status]int64, len(models.AllStatuses))
	var total int64
	for _, status := range models.AllStatuses {
		statusCounts[status] = counts[status]
		total += counts[status]
	}

	active := total - statusCounts[models.StatusRejected] - statusCounts[models.StatusArchived]

	successRate := 0
	if total > 0 {
		offers := statusCounts[models.StatusOfferReceived]
		successRate = int(math.Round(float64(offers) / float64(total) * 100))
	}

	return &dtos.StatsResponse{
		TotalJobs:          total,
		ActiveApplications: active,
		SuccessRate:        successRate,
		StatusCounts:       statusCounts,
		UserID:             ownerID,
		Timestamp:          time.Now().UTC(),
	}
}
