package handler

import "github.com/formgate/accounts-api/internal/core/domain"

type registerAdminRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Name       string `json:"name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	NationalID string `json:"national_id" validate:"required"`
}

type registerUserRequest struct {
	registerAdminRequest
	// AdminCode is the owning admin's account id, handed out as an invite.
	AdminCode string `json:"admin_code" validate:"required,uuid4"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Account *domain.Account `json:"account,omitempty"`
	Token   string          `json:"token,omitempty"`
}

type adminIDResponse struct {
	AdminID string `json:"admin_id"`
}
