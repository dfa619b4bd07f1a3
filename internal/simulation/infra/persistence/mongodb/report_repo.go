package mongodb

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"VillageWars/modules/kit/errx"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultReportCollectionName = "battle_report"

const (
	OpSaveReport   = "repo.report.Save"
	OpGetReport    = "repo.report.Get"
	OpEnsureIndex  = "repo.report.EnsureIndexes"
	errNilCollName = "mongodb report collection is nil"
)

type ReportRepo struct {
	coll *mongo.Collection
}

func NewReportRepo(db *mongo.Database) *ReportRepo {
	if db == nil {
		return &ReportRepo{}
	}
	return &ReportRepo{coll: db.Collection(defaultReportCollectionName)}
}

// EnsureIndexes 建 movement_id 唯一索引与按玩家查询的索引。
func (r *ReportRepo) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return unavailable(OpEnsureIndex, errors.New(errNilCollName))
	}
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "movement_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "attacker_player_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "defender_player_id", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	if err != nil {
		return unavailable(OpEnsureIndex, err)
	}
	return nil
}

func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	if rep == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return unavailable(OpSaveReport, errors.New(errNilCollName))
	}
	doc := ReportToDoc(rep)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return unavailable(OpSaveReport, err).WithData("report_id", rep.ID)
	}
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, id int64) (*domain.Report, error) {
	if r == nil || r.coll == nil {
		return nil, unavailable(OpGetReport, errors.New(errNilCollName))
	}
	var doc model.ReportDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch {
	case err == nil:
		return ReportFromDoc(&doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, domain.ErrReportNotFound.WithData("report_id", id)
	default:
		return nil, unavailable(OpGetReport, err).WithData("report_id", id)
	}
}

func unavailable(op string, err error) *errx.Error {
	return domain.ErrSystemUnavailable.WithData("op", op).WithCause(err)
}
