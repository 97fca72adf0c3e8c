// Package evidencerepo stores uploaded payment proofs as blobs next to the
// orders they belong to.
package evidencerepo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"empi/internal/core/domain/model/order"
	"empi/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RefScheme prefixes every reference handed back to the core.
const RefScheme = "evidence://"

// EvidenceDTO is the payment_evidence table.
type EvidenceDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber string    `gorm:"size:64;not null;index"`
	ContentType string    `gorm:"size:64;not null"`
	SHA256      string    `gorm:"column:sha256;size:64;not null"`
	Size        int       `gorm:"not null"`
	Blob        []byte    `gorm:"type:bytea;not null"`
	CreatedAt   time.Time `gorm:"not null"`
}

func (EvidenceDTO) TableName() string {
	return "payment_evidence"
}

// GormEvidenceStore implements ports.PaymentEvidenceStore. It writes outside
// any unit of work: a stored proof whose order update later fails is an
// orphan blob, never a lost upload.
type GormEvidenceStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormEvidenceStore(db *gorm.DB) *GormEvidenceStore {
	return &GormEvidenceStore{db: db, now: time.Now}
}

func (s *GormEvidenceStore) Put(ctx context.Context, number order.Number, contentType string, blob []byte) (string, error) {
	if len(blob) == 0 {
		return "", errs.NewValueIsRequiredError("paymentProof")
	}

	sum := sha256.Sum256(blob)
	dto := EvidenceDTO{
		ID:          uuid.New(),
		OrderNumber: number.String(),
		ContentType: contentType,
		SHA256:      hex.EncodeToString(sum[:]),
		Size:        len(blob),
		Blob:        blob,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return "", err
	}
	return RefScheme + dto.ID.String(), nil
}

// Get returns a stored blob by the reference Put returned.
func (s *GormEvidenceStore) Get(ctx context.Context, ref string) (EvidenceDTO, error) {
	raw, ok := strings.CutPrefix(ref, RefScheme)
	if !ok {
		return EvidenceDTO{}, errs.NewValueIsInvalidError("evidenceRef")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return EvidenceDTO{}, errs.NewValueIsInvalidErrorWithCause("evidenceRef", err)
	}

	var dto EvidenceDTO
	if err := s.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EvidenceDTO{}, errs.NewObjectNotFoundError("evidence", ref)
		}
		return EvidenceDTO{}, err
	}
	return dto, nil
}
