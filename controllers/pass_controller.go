// controllers/pass_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"visitor-backend/models"
	"visitor-backend/services"
	"visitor-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type GeneratePassRequest struct {
	VisitorPhoto string `json:"visitorPhoto"`
	Name         string `json:"name" binding:"required"`
	ContactNo    string `json:"contactNo" binding:"required,contactno"`
	Email        string `json:"email"`
	Company      string `json:"company"`
	NoOfPeople   int    `json:"noOfPeople"`

	Nationality  string `json:"nationality"`
	IdentityType string `json:"identityType"`
	IdentityNo   string `json:"identityNo"`

	Address string `json:"address"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`

	VehicleDetails string `json:"vehicleDetails"`

	AllowOn   string `json:"allowOn"`
	AllowTill string `json:"allowTill"`

	DepartmentTo       string `json:"departmentTo" binding:"required"`
	EmployeeTo         string `json:"employeeTo"`
	VisitType          string `json:"visitType"`
	SpecialInstruction string `json:"specialInstruction"`
	PurposeOfVisit     string `json:"purposeOfVisit"`
	CreatedBy          string `json:"createdBy"`
}

// ---------------------------
// Controller
// ---------------------------

type PassController struct {
	VisitorSvc *services.VisitorService
	PassSvc    *services.PassService
}

func NewPassController(visitorSvc *services.VisitorService, passSvc *services.PassService) *PassController {
	return &PassController{VisitorSvc: visitorSvc, PassSvc: passSvc}
}

// parseVisitTime accepts the datetime-local format the pass form posts plus
// RFC3339 and bare dates.
func parseVisitTime(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid datetime format")
}

// GeneratePass (POST /visitor/generate-pass) resolves the visitor identity by
// contact number, then issues one NEW pass against it.
func (ctrl *PassController) GeneratePass(c *gin.Context) {
	var req GeneratePassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Name, Contact No and Department are required")
		return
	}

	allowOn, err := parseVisitTime(req.AllowOn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid allowOn format")
		return
	}
	allowTill, err := parseVisitTime(req.AllowTill)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid allowTill format")
		return
	}

	visitorID, created, err := ctrl.VisitorSvc.ResolveVisitor(req.ContactNo, models.Visitor{
		Name:           req.Name,
		Email:          req.Email,
		Company:        req.Company,
		Nationality:    req.Nationality,
		IdentityType:   req.IdentityType,
		IdentityNo:     req.IdentityNo,
		Address:        req.Address,
		Country:        req.Country,
		State:          req.State,
		City:           req.City,
		VehicleDetails: req.VehicleDetails,
		PhotoURL:       req.VisitorPhoto,
	})
	if err != nil {
		log.Printf("GeneratePass resolve visitor error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to generate visitor pass")
		return
	}
	if created {
		log.Printf("new visitor %s registered for contact %s", visitorID, req.ContactNo)
	}

	pass, err := ctrl.PassSvc.IssuePass(visitorID, services.IssuePassInput{
		VisitorPhoto:        req.VisitorPhoto,
		Name:                req.Name,
		ContactNo:           req.ContactNo,
		Email:               req.Email,
		Company:             req.Company,
		DepartmentTo:        req.DepartmentTo,
		EmployeeTo:          req.EmployeeTo,
		VisitType:           req.VisitType,
		PurposeOfVisit:      req.PurposeOfVisit,
		SpecialInstructions: req.SpecialInstruction,
		CreatedBy:           req.CreatedBy,
		NoOfPeople:          req.NoOfPeople,
		AllowOn:             allowOn,
		AllowTill:           allowTill,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDeptNotFound):
			utils.JSONError(c, http.StatusBadRequest, "Unknown department")
		case errors.Is(err, services.ErrEmployeeNotFound):
			utils.JSONError(c, http.StatusBadRequest, "Unknown employee")
		default:
			log.Printf("GeneratePass issue error: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "Failed to generate visitor pass")
		}
		return
	}

	utils.JSONSuccessMessage(c, http.StatusCreated, "Visitor pass generated successfully", gin.H{
		"passId":            pass.PassID,
		"visitorId":         pass.VisitorID,
		"name":              pass.VisitorName,
		"departmentToVisit": pass.DepartmentToVisit,
	})
}

// FetchPreviousPass (GET /visitor/fetch-previous-pass?contactNo=) returns the
// stored visitor record for a returning contact number.
func (ctrl *PassController) FetchPreviousPass(c *gin.Context) {
	contactNo := strings.TrimSpace(c.Query("contactNo"))
	if contactNo == "" {
		utils.JSONError(c, http.StatusBadRequest, "Contact number is required")
		return
	}

	visitor, err := ctrl.VisitorSvc.FindByContact(contactNo)
	if err != nil {
		if errors.Is(err, services.ErrVisitorNotFound) {
			utils.JSONError(c, http.StatusNotFound, "No previous visitor pass found")
			return
		}
		log.Printf("FetchPreviousPass DB error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch previous visitor pass")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, visitor)
}

// GetPassDetails (GET /visitor/pass-details/:passId) serves the pass print
// and reprint views.
func (ctrl *PassController) GetPassDetails(c *gin.Context) {
	passID := c.Param("passId")
	if passID == "" {
		utils.JSONError(c, http.StatusBadRequest, "Pass ID is required")
		return
	}

	details, err := ctrl.PassSvc.GetPassDetails(passID)
	if err != nil {
		if errors.Is(err, services.ErrPassNotFound) {
			utils.JSONError(c, http.StatusNotFound, "Visitor pass not found")
			return
		}
		log.Printf("GetPassDetails DB error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch visitor pass details")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, details)
}

// GetDepartments (GET /visitor/departments)
func (ctrl *PassController) GetDepartments(c *gin.Context) {
	departments, err := ctrl.PassSvc.Departments()
	if err != nil {
		log.Printf("GetDepartments DB error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve departments")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, departments)
}

// GetEmployees (GET /visitor/employees)
func (ctrl *PassController) GetEmployees(c *gin.Context) {
	employees, err := ctrl.PassSvc.Employees()
	if err != nil {
		log.Printf("GetEmployees DB error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Failed to retrieve employee information")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, employees)
}
