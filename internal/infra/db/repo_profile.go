package db

import (
	"context"
	"errors"

	"walletlink/internal/domain"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetCurrentPersona(ctx context.Context, address domain.IdentityAddress) (*domain.Persona, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model PersonaModel
	err := r.db.WithContext(ctx).First(&model, "identity_address = ?", string(address)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var entryModels []PersonaDataEntryModel
	err = r.db.WithContext(ctx).
		Where("identity_address = ?", string(address)).
		Order("ordinal").
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.PersonaDataEntry, 0, len(entryModels))
	for _, entryModel := range entryModels {
		entries = append(entries, domain.PersonaDataEntry{
			ID:    domain.PersonaDataEntryID(entryModel.EntryID),
			Kind:  domain.FieldKind(entryModel.Kind),
			Value: entryModel.Value,
		})
	}

	return &domain.Persona{
		Address: domain.IdentityAddress(model.IdentityAddress),
		Label:   model.Label,
		Data:    domain.PersonaData{Entries: entries},
	}, nil
}

func (r *ProfileRepository) GetCurrentAccount(ctx context.Context, address domain.AccountAddress) (*domain.Account, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model AccountModel
	err := r.db.WithContext(ctx).First(&model, "address = ?", string(address)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &domain.Account{
		Address:      domain.AccountAddress(model.Address),
		Label:        model.Label,
		AppearanceID: model.AppearanceID,
	}, nil
}
