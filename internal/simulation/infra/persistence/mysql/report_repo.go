package mysql

import (
	"VillageWars/internal/simulation/domain"
	"VillageWars/internal/simulation/infra/persistence/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportRepo 不走事务，战报在结算提交后单独写入。
type ReportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) *ReportRepo {
	return &ReportRepo{db: db}
}

const (
	OpSaveReport = "repo.report.Save"
	OpGetReport  = "repo.report.Get"
)

// Save 按 movement_id 幂等，重复写入忽略。
func (r *ReportRepo) Save(ctx context.Context, rep *domain.Report) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(reportToModel(rep)).Error
	if err != nil {
		return infraErr(OpSaveReport, err, "report_id", rep.ID, "movement_id", rep.MovementID)
	}
	return nil
}

func (r *ReportRepo) Get(ctx context.Context, id int64) (*domain.Report, error) {
	var m model.BattleReport
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	switch {
	case err == nil:
		return reportFromModel(&m), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, domain.ErrReportNotFound.WithData("report_id", id)
	default:
		return nil, infraErr(OpGetReport, err, "report_id", id)
	}
}
