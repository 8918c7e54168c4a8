package models

import (
	"github.com/valepresente/backend/internal/domain/store"
)

// StoreModel is the persistence model for stores
type StoreModel struct {
	AggregateModel
	Name            string   `gorm:"size:255;not null"`
	Description     string   `gorm:"type:text"`
	Category        string   `gorm:"size:100;index"`
	City            string   `gorm:"size:100"`
	State           string   `gorm:"size:2"`
	Images          []string `gorm:"serializer:json"`
	OwnerID         string   `gorm:"size:64;not null;index"`
	PaymentProvider string   `gorm:"size:32;not null;default:ASAAS"`
	PaymentAPIKey   string   `gorm:"size:255"`
	Status          string   `gorm:"size:16;not null;index"`
}

// TableName returns the table name
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the model to a domain store
func (m *StoreModel) ToDomain() *store.Store {
	s := &store.Store{
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		City:        m.City,
		State:       m.State,
		Images:      m.Images,
		OwnerID:     m.OwnerID,
		PaymentConfig: store.PaymentConfig{
			Provider: store.PaymentProvider(m.PaymentProvider),
			APIKey:   m.PaymentAPIKey,
		},
		Status: store.StoreStatus(m.Status),
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// StoreModelFromDomain converts a domain store to its persistence model
func StoreModelFromDomain(s *store.Store) *StoreModel {
	m := &StoreModel{
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		City:            s.City,
		State:           s.State,
		Images:          s.Images,
		OwnerID:         s.OwnerID,
		PaymentProvider: string(s.PaymentConfig.Provider),
		PaymentAPIKey:   s.PaymentConfig.APIKey,
		Status:          string(s.Status),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
