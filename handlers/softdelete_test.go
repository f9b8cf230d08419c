package handlers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/talyaroofing/crm/models"
)

// openTestDB opens an in-memory sqlite database with just the tables a
// test needs, named after the test so parallel tests stay isolated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	for _, stmt := range []string{
		`CREATE TABLE crm_customers (
			id text PRIMARY KEY, company_id text, name text, email text,
			phone text, address text, lead_source text, notes text,
			created_by text, created_at datetime, updated_at datetime,
			deleted_at datetime)`,
		`CREATE TABLE crm_projects (
			id text PRIMARY KEY, company_id text, customer_id text,
			name text, status text, address text,
			created_at datetime, updated_at datetime, deleted_at datetime)`,
		`CREATE TABLE crm_communications (
			id text PRIMARY KEY, company_id text, customer_id text,
			project_id text, type text, direction text, content text,
			recording_url text, duration_seconds integer, ai_summary text,
			provider_sid text, created_by text, created_at datetime)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// A deleted customer leaves the customer list but the projects that point
// at it keep a readable reference for contracts, chat context and exports.
func TestDeletedCustomerStaysReferencedByProject(t *testing.T) {
	db := openTestDB(t)
	companyID, customerID, projectID := uuid.New(), uuid.New(), uuid.New()

	require.NoError(t, db.Exec(
		`INSERT INTO crm_customers (id, company_id, name, phone, created_at, updated_at)
		 VALUES (?, ?, ?, ?, datetime('now'), datetime('now'))`,
		customerID.String(), companyID.String(), "Dana Whitfield", "+12125550123").Error)
	require.NoError(t, db.Exec(
		`INSERT INTO crm_projects (id, company_id, customer_id, name, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 'lead', datetime('now'), datetime('now'))`,
		projectID.String(), companyID.String(), customerID.String(), "Roof replacement").Error)

	require.NoError(t, db.Where("id = ?", customerID).Delete(&models.Customer{}).Error)

	var listed []models.Customer
	require.NoError(t, db.Where("company_id = ?", companyID).Find(&listed).Error)
	assert.Empty(t, listed, "deleted customer should not show up in lists")

	var project models.Project
	require.NoError(t, db.Preload("Customer", unscopedCustomer).
		Where("id = ?", projectID).First(&project).Error)
	require.NotNil(t, project.Customer, "project should keep its customer after deletion")
	assert.Equal(t, "Dana Whitfield", project.Customer.Name)
	assert.True(t, project.Customer.DeletedAt.Valid)
}
