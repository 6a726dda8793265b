package postgres

import (
	"context"

	"loaner/internal/domain/entity"
	"loaner/internal/domain/repository"
	"loaner/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// loanRepository implements the repository.LoanRepository interface.
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository is the constructor for loanRepository.
func NewLoanRepository(db *gorm.DB) repository.LoanRepository {
	return &loanRepository{
		db: db,
	}
}

// Create persists a new loan. The conditional insert on the primary key is
// what gives concurrent creates with the same ID a single winner: the
// losing writer sees zero affected rows and reports ErrDuplicateLoan
// instead of silently overwriting.
func (repo *loanRepository) Create(ctx context.Context, loan entity.Loan) (entity.Loan, error) {
	loanM := fromLoanDomain(loan)

	result := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(loanM)
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return entity.Loan{}, repository.ErrDuplicateLoan
		}

		return entity.Loan{}, errors.Wrap(result.Error, "failed to create loan")
	}
	if result.RowsAffected == 0 {
		return entity.Loan{}, repository.ErrDuplicateLoan
	}

	return toLoanDomain(loanM), nil
}

// FindByID retrieves a loan by its ID.
func (repo *loanRepository) FindByID(ctx context.Context, id string) (entity.Loan, error) {
	var loanM model.LoanModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&loanM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.Loan{}, repository.ErrLoanNotFound
		}

		return entity.Loan{}, errors.Wrap(err, "failed to find loan by ID")
	}

	return toLoanDomain(&loanM), nil
}

// Update replaces an existing record wholesale.
func (repo *loanRepository) Update(ctx context.Context, loan entity.Loan) error {
	loanM := fromLoanDomain(loan)

	result := repo.db.WithContext(ctx).
		Model(&model.LoanModel{}).
		Where("id = ?", loanM.ID).
		Select("*").
		Updates(loanM)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update loan")
	}
	if result.RowsAffected == 0 {
		return repository.ErrLoanNotFound
	}

	return nil
}

// ListAll returns every stored loan. Callers must not rely on ordering.
func (repo *loanRepository) ListAll(ctx context.Context) ([]entity.Loan, error) {
	var loanModels []*model.LoanModel

	if err := repo.db.WithContext(ctx).
		Find(&loanModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list loans")
	}

	loans := make([]entity.Loan, 0, len(loanModels))
	for _, loanM := range loanModels {
		loans = append(loans, toLoanDomain(loanM))
	}

	return loans, nil
}

// FindActiveByUserID returns the given user's active loans.
func (repo *loanRepository) FindActiveByUserID(ctx context.Context, userID string) ([]entity.Loan, error) {
	var loanModels []*model.LoanModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entity.LoanStatusActive)).
		Find(&loanModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active loans by user")
	}

	loans := make([]entity.Loan, 0, len(loanModels))
	for _, loanM := range loanModels {
		loans = append(loans, toLoanDomain(loanM))
	}

	return loans, nil
}

// Mapping helpers (model <-> domain).

func fromLoanDomain(loan entity.Loan) *model.LoanModel {
	return &model.LoanModel{
		ID:         loan.ID,
		DeviceID:   loan.DeviceID,
		UserID:     loan.UserID,
		LoanedAt:   loan.LoanedAt,
		DueAt:      loan.DueAt,
		ReturnedAt: loan.ReturnedAt,
		Status:     string(loan.Status),
		CreatedAt:  loan.CreatedAt,
		UpdatedAt:  loan.UpdatedAt,
	}
}

func toLoanDomain(loanM *model.LoanModel) entity.Loan {
	return entity.Loan{
		ID:         loanM.ID,
		DeviceID:   loanM.DeviceID,
		UserID:     loanM.UserID,
		LoanedAt:   loanM.LoanedAt,
		DueAt:      loanM.DueAt,
		ReturnedAt: loanM.ReturnedAt,
		Status:     entity.LoanStatus(loanM.Status),
		CreatedAt:  loanM.CreatedAt,
		UpdatedAt:  loanM.UpdatedAt,
	}
}
