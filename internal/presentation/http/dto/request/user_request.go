package request

// UpdateUserRequest updates an operator account
type UpdateUserRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=2,max=255"`
	LastName  *string `json:"last_name" binding:"omitempty,min=2,max=255"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin cashier"`
}
