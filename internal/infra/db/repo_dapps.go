package db

import (
	"context"
	"errors"

	"walletlink/internal/domain"

	"gorm.io/gorm"
)

type DappRepository struct {
	db *gorm.DB
}

func NewDappRepository(db *gorm.DB) *DappRepository {
	return &DappRepository{db: db}
}

func (r *DappRepository) GetAuthorizedDapp(ctx context.Context, address domain.AccountAddress) (*domain.AuthorizedDapp, error) {
	if r.db == nil {
		return nil, errDBUnavailable
	}
	var model AuthorizedDappModel
	err := r.db.WithContext(ctx).First(&model, "dapp_definition_address = ?", string(address)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var personaModels []AuthorizedPersonaModel
	err = r.db.WithContext(ctx).
		Where("dapp_definition_address = ?", string(address)).
		Order("identity_address").
		Find(&personaModels).Error
	if err != nil {
		return nil, err
	}

	personas := make([]domain.AuthorizedPersonaSimple, 0, len(personaModels))
	for _, personaModel := range personaModels {
		persona, err := r.loadPersonaGrants(ctx, personaModel)
		if err != nil {
			return nil, err
		}
		personas = append(personas, persona)
	}

	return &domain.AuthorizedDapp{
		DappDefinitionAddress: domain.AccountAddress(model.DappDefinitionAddress),
		DisplayName:           model.DisplayName,
		Personas:              personas,
	}, nil
}

func (r *DappRepository) loadPersonaGrants(ctx context.Context, model AuthorizedPersonaModel) (domain.AuthorizedPersonaSimple, error) {
	persona := domain.AuthorizedPersonaSimple{
		IdentityAddress: domain.IdentityAddress(model.IdentityAddress),
		LastLogin:       model.LastLogin,
	}

	if model.SharedAccountsQuantifier != nil && model.SharedAccountsQuantity != nil {
		var accountModels []SharedAccountModel
		err := r.db.WithContext(ctx).
			Where("dapp_definition_address = ? AND identity_address = ?", model.DappDefinitionAddress, model.IdentityAddress).
			Order("ordinal").
			Find(&accountModels).Error
		if err != nil {
			return domain.AuthorizedPersonaSimple{}, err
		}
		ids := make([]domain.AccountAddress, 0, len(accountModels))
		for _, accountModel := range accountModels {
			ids = append(ids, domain.AccountAddress(accountModel.AccountAddress))
		}
		persona.SharedAccounts = &domain.SharedAccounts{
			Request: domain.NumberOfValues{
				Quantity:   *model.SharedAccountsQuantity,
				Quantifier: domain.Quantifier(*model.SharedAccountsQuantifier),
			},
			IDs: ids,
		}
	}

	var entryModels []SharedPersonaDataEntryModel
	err := r.db.WithContext(ctx).
		Where("dapp_definition_address = ? AND identity_address = ?", model.DappDefinitionAddress, model.IdentityAddress).
		Order("entry_id").
		Find(&entryModels).Error
	if err != nil {
		return domain.AuthorizedPersonaSimple{}, err
	}
	entryIDs := make([]domain.PersonaDataEntryID, 0, len(entryModels))
	for _, entryModel := range entryModels {
		entryIDs = append(entryIDs, domain.PersonaDataEntryID(entryModel.EntryID))
	}
	persona.SharedPersonaData = domain.SharedPersonaData{EntryIDs: entryIDs}

	return persona, nil
}

// PutAuthorizedDapp replaces the stored record wholesale inside one
// transaction; grants are small and replace-all keeps the write trivially
// consistent with the domain record.
func (r *DappRepository) PutAuthorizedDapp(ctx context.Context, dapp domain.AuthorizedDapp) error {
	if r.db == nil {
		return errDBUnavailable
	}
	address := string(dapp.DappDefinitionAddress)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&AuthorizedDappModel{
			DappDefinitionAddress: address,
			DisplayName:           dapp.DisplayName,
		}).Error; err != nil {
			return err
		}

		for _, model := range []any{
			&AuthorizedPersonaModel{},
			&SharedAccountModel{},
			&SharedPersonaDataEntryModel{},
		} {
			if err := tx.Where("dapp_definition_address = ?", address).Delete(model).Error; err != nil {
				return err
			}
		}

		for _, persona := range dapp.Personas {
			personaModel := AuthorizedPersonaModel{
				DappDefinitionAddress: address,
				IdentityAddress:       string(persona.IdentityAddress),
				LastLogin:             persona.LastLogin,
			}
			if persona.SharedAccounts != nil {
				quantifier := string(persona.SharedAccounts.Request.Quantifier)
				quantity := persona.SharedAccounts.Request.Quantity
				personaModel.SharedAccountsQuantifier = &quantifier
				personaModel.SharedAccountsQuantity = &quantity
			}
			if err := tx.Create(&personaModel).Error; err != nil {
				return err
			}

			if persona.SharedAccounts != nil {
				for ordinal, accountAddress := range persona.SharedAccounts.IDs {
					if err := tx.Create(&SharedAccountModel{
						DappDefinitionAddress: address,
						IdentityAddress:       string(persona.IdentityAddress),
						Ordinal:               ordinal,
						AccountAddress:        string(accountAddress),
					}).Error; err != nil {
						return err
					}
				}
			}
			for _, entryID := range persona.SharedPersonaData.EntryIDs {
				if err := tx.Create(&SharedPersonaDataEntryModel{
					DappDefinitionAddress: address,
					IdentityAddress:       string(persona.IdentityAddress),
					EntryID:               string(entryID),
				}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}
