package service

import (
	"strings"

	"orderdesk/backend/internal/domain"
)

const (
	fieldID          = "id"
	fieldName        = "name"
	fieldEmail       = "email"
	fieldPrice       = "price"
	fieldIsAvailable = "isAvailable"
	fieldCustomerID  = "customerId"
	fieldPackageID   = "packageId"
	fieldAmount      = "amount"
	fieldStatus      = "status"
)

func findByID[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func customerID(customer domain.Customer) string { return customer.ID }
func packageID(pkg domain.Package) string        { return pkg.ID }
func orderID(order domain.Order) string          { return order.ID }

func emailTaken(customers []domain.Customer, email, exceptID string) bool {
	for _, customer := range customers {
		if customer.ID != exceptID && domain.SameText(customer.Email, email) {
			return true
		}
	}
	return false
}

func packageNameTaken(packages []domain.Package, name, exceptID string) bool {
	for _, pkg := range packages {
		if pkg.ID != exceptID && domain.SameText(pkg.Name, name) {
			return true
		}
	}
	return false
}

func validateCustomerInput(input domain.CustomerInput, customers []domain.Customer) []domain.FieldError {
	var errs []domain.FieldError
	if err := domain.ValidateName(input.Name); err != nil {
		errs = append(errs, domain.FieldError{Field: fieldName, Message: "Name is required"})
	}
	switch {
	case strings.TrimSpace(input.Email) == "":
		errs = append(errs, domain.FieldError{Field: fieldEmail, Message: "Email is required"})
	case domain.ValidateEmail(input.Email) != nil:
		errs = append(errs, domain.FieldError{Field: fieldEmail, Message: "Invalid email address"})
	case emailTaken(customers, input.Email, ""):
		errs = append(errs, domain.FieldError{Field: fieldEmail, Message: "Email already exists"})
	}
	return errs
}

func validateCustomerPatch(id string, patch domain.CustomerPatch, customers []domain.Customer) []domain.FieldError {
	var errs []domain.FieldError
	if patch.Name != nil && domain.ValidateName(*patch.Name) != nil {
		errs = append(errs, domain.FieldError{Field: fieldName, Message: "Name cannot be empty"})
	}
	if patch.Email != nil {
		switch {
		case domain.ValidateEmail(*patch.Email) != nil:
			errs = append(errs, domain.FieldError{Field: fieldEmail, Message: "Invalid email address"})
		case emailTaken(customers, *patch.Email, id):
			errs = append(errs, domain.FieldError{Field: fieldEmail, Message: "Email already exists"})
		}
	}
	return errs
}

// validatePackageInput reports field errors first; the duplicate name check
// only runs once every field is valid.
func validatePackageInput(input domain.PackageInput, packages []domain.Package) []domain.FieldError {
	var errs []domain.FieldError
	if domain.ValidateName(input.Name) != nil {
		errs = append(errs, domain.FieldError{Field: fieldName, Message: "Name is required"})
	}
	if domain.ValidatePositive(input.Price) != nil {
		errs = append(errs, domain.FieldError{Field: fieldPrice, Message: "Price must be a positive number"})
	}
	if input.IsAvailable == nil {
		errs = append(errs, domain.FieldError{Field: fieldIsAvailable, Message: "Availability status must be specified"})
	}
	if len(errs) > 0 {
		return errs
	}
	if packageNameTaken(packages, input.Name, "") {
		return []domain.FieldError{{Field: fieldName, Message: "Package name already exists"}}
	}
	return nil
}

func validatePackagePatch(id string, patch domain.PackagePatch, packages []domain.Package) []domain.FieldError {
	var errs []domain.FieldError
	if patch.Name != nil && domain.ValidateName(*patch.Name) != nil {
		errs = append(errs, domain.FieldError{Field: fieldName, Message: "Name cannot be empty"})
	}
	if patch.Price != nil && domain.ValidatePositive(*patch.Price) != nil {
		errs = append(errs, domain.FieldError{Field: fieldPrice, Message: "Price must be a positive number"})
	}
	if len(errs) > 0 {
		return errs
	}
	if patch.Name != nil && packageNameTaken(packages, *patch.Name, id) {
		return []domain.FieldError{{Field: fieldName, Message: "Package name already exists"}}
	}
	return nil
}

// resolveOrderRefs checks that both references are present and resolve. The
// returned package is nil unless packageID resolves.
func resolveOrderRefs(customerRef, packageRef string, customers []domain.Customer, packages []domain.Package) (*domain.Package, []domain.FieldError) {
	var errs []domain.FieldError
	switch {
	case strings.TrimSpace(customerRef) == "":
		errs = append(errs, domain.FieldError{Field: fieldCustomerID, Message: "Customer ID is required"})
	case findByID(customers, customerRef, customerID) < 0:
		errs = append(errs, domain.FieldError{Field: fieldCustomerID, Message: "Customer not found"})
	}

	var resolved *domain.Package
	switch index := findByID(packages, packageRef, packageID); {
	case strings.TrimSpace(packageRef) == "":
		errs = append(errs, domain.FieldError{Field: fieldPackageID, Message: "Package ID is required"})
	case index < 0:
		errs = append(errs, domain.FieldError{Field: fieldPackageID, Message: "Package not found"})
	default:
		resolved = &packages[index]
	}
	return resolved, errs
}

// orderAmount takes the package price when no amount was given.
func orderAmount(amount float64, pkg *domain.Package) (float64, []domain.FieldError) {
	if amount == 0 && pkg != nil {
		amount = pkg.Price
	}
	if domain.ValidatePositive(amount) != nil {
		return 0, []domain.FieldError{{Field: fieldAmount, Message: "Amount must be a positive number"}}
	}
	return amount, nil
}

func validateStatus(status domain.OrderStatus) []domain.FieldError {
	if !status.Valid() {
		return []domain.FieldError{{Field: fieldStatus, Message: "Invalid status value"}}
	}
	return nil
}
