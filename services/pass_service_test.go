package services

import (
	"strings"
	"testing"
	"time"

	"visitor-backend/models"
	"visitor-backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePassDefaults(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	svc := NewPassService(db)

	visitors := NewVisitorService(db)
	visitorID, _, err := visitors.ResolveVisitor("9876543210", models.Visitor{Name: "Asha"})
	require.NoError(t, err)

	before := utils.FacilityNow()
	pass, err := svc.IssuePass(visitorID, IssuePassInput{
		Name:         "Asha",
		ContactNo:    "9876543210",
		DepartmentTo: "D1",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusNew, pass.Status)
	assert.True(t, strings.HasPrefix(pass.PassID, "WRLVP"))
	assert.Equal(t, 1, pass.NoOfPeople, "no_of_people defaults to 1")
	assert.Nil(t, pass.AllowTill, "open-ended pass when allowTill absent")
	assert.False(t, pass.AllowOn.Before(before.Add(-time.Second)), "allow_on defaults to now")

	// issuance happens-before check-in: the row is persisted before return
	var stored models.VisitorPass
	require.NoError(t, db.Where("pass_id = ?", pass.PassID).First(&stored).Error)
	assert.Equal(t, models.StatusNew, stored.Status)
	assert.Equal(t, visitorID, stored.VisitorID)
}

func TestIssuePassSnapshotsDeclaredFields(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	visitors := NewVisitorService(db)
	passes := NewPassService(db)

	visitorID, _, err := visitors.ResolveVisitor("9876543210", models.Visitor{Name: "Asha", Company: "Acme"})
	require.NoError(t, err)

	// second visit declares a different company; the pass snapshot carries it
	// even though the visitor row keeps "Acme"
	pass, err := passes.IssuePass(visitorID, IssuePassInput{
		Name:         "Asha",
		ContactNo:    "9876543210",
		Company:      "Globex",
		DepartmentTo: "D1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Globex", pass.Company)

	visitor, err := visitors.FindByContact("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "Acme", visitor.Company)
}

func TestIssuePassUnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	svc := NewPassService(db)

	_, err := svc.IssuePass("WRLV000X", IssuePassInput{
		Name: "Asha", ContactNo: "9876543210", DepartmentTo: "NOPE",
	})
	require.ErrorIs(t, err, ErrDeptNotFound)

	_, err = svc.IssuePass("WRLV000X", IssuePassInput{
		Name: "Asha", ContactNo: "9876543210", DepartmentTo: "D1", EmployeeTo: "NOPE",
	})
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestGetPassDetails(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	svc := NewPassService(db)

	pass := issueTestPass(t, db, "9876543210")

	details, err := svc.GetPassDetails(pass.PassID)
	require.NoError(t, err)
	assert.Equal(t, pass.PassID, details.PassID)
	assert.Equal(t, "Asha", details.VisitorName)
	assert.Equal(t, "Assembly", details.DepartmentName)
	assert.Equal(t, "Ravi Menon", details.EmployeeName)
	assert.Equal(t, "Pune", details.City)
	assert.Equal(t, models.StatusNew, details.Status)

	_, err = svc.GetPassDetails("WRLVP0000000000NOPE")
	require.ErrorIs(t, err, ErrPassNotFound)
}

func TestDirectoryLookups(t *testing.T) {
	db := setupTestDB(t)
	seedDirectory(t, db)
	svc := NewPassService(db)

	departments, err := svc.Departments()
	require.NoError(t, err)
	require.Len(t, departments, 1)
	assert.Equal(t, "Assembly", departments[0].DepartmentName)

	employees, err := svc.Employees()
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "E1", employees[0].EmployeeID)
	assert.Equal(t, "Assembly", employees[0].DepartmentName)
}
