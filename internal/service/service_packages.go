package service

import (
	"context"
	"strings"

	"orderdesk/backend/internal/domain"
)

func matchPackage(pkg domain.Package, needle string) bool {
	return containsFold(needle, pkg.Name, pkg.Description)
}

func (s *Service) ListPackages(ctx context.Context, params ListParams) Result[[]domain.Package] {
	end := s.begin(collectionPackages)
	defer end()

	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[[]domain.Package](s.serverFailure("list_packages", err))
	}
	return listResult(packages, params, matchPackage)
}

func (s *Service) GetPackage(ctx context.Context, id string) Result[domain.Package] {
	end := s.begin(collectionPackages)
	defer end()

	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[domain.Package](s.serverFailure("get_package", err))
	}
	index := findByID(packages, id, packageID)
	if index < 0 {
		return notFound[domain.Package]("Package not found")
	}
	return succeed(packages[index])
}

func (s *Service) CreatePackage(ctx context.Context, input domain.PackageInput) Result[domain.Package] {
	end := s.begin(collectionPackages)
	defer end()

	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[domain.Package](s.serverFailure("create_package", err))
	}
	if errs := validatePackageInput(input, packages); len(errs) > 0 {
		return invalid[domain.Package](errs...)
	}

	now := s.now()
	pkg := domain.Package{
		ID:          s.newID(now),
		Name:        strings.TrimSpace(input.Name),
		Price:       input.Price,
		Description: strings.TrimSpace(input.Description),
		IsAvailable: *input.IsAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.collections.SetPackages(ctx, append(packages, pkg)); err != nil {
		return fail[domain.Package](s.serverFailure("create_package", err))
	}

	s.telemetry.Record("package.created", map[string]string{"package_id": pkg.ID})
	return succeed(pkg)
}

func (s *Service) UpdatePackage(ctx context.Context, id string, patch domain.PackagePatch) Result[domain.Package] {
	end := s.begin(collectionPackages)
	defer end()

	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[domain.Package](s.serverFailure("update_package", err))
	}
	index := findByID(packages, id, packageID)
	if index < 0 {
		return notFound[domain.Package]("Package not found")
	}
	if errs := validatePackagePatch(id, patch, packages); len(errs) > 0 {
		return invalid[domain.Package](errs...)
	}

	pkg := packages[index]
	if patch.Name != nil {
		pkg.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Price != nil {
		pkg.Price = *patch.Price
	}
	if patch.Description != nil {
		pkg.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsAvailable != nil {
		pkg.IsAvailable = *patch.IsAvailable
	}
	pkg.UpdatedAt = s.now()
	packages[index] = pkg

	if err := s.collections.SetPackages(ctx, packages); err != nil {
		return fail[domain.Package](s.serverFailure("update_package", err))
	}

	s.telemetry.Record("package.updated", map[string]string{"package_id": pkg.ID})
	return succeed(pkg)
}

// DeletePackage refuses while the package is marked available. Orders that
// reference the package are not consulted.
func (s *Service) DeletePackage(ctx context.Context, id string) Result[struct{}] {
	end := s.begin(collectionPackages)
	defer end()

	packages, err := s.collections.Packages(ctx)
	if err != nil {
		return fail[struct{}](s.serverFailure("delete_package", err))
	}
	index := findByID(packages, id, packageID)
	if index < 0 {
		return notFound[struct{}]("Package not found")
	}
	if packages[index].IsAvailable {
		return invalid[struct{}](domain.FieldError{Field: fieldID, Message: "Package is currently available"})
	}

	remaining := append(packages[:index:index], packages[index+1:]...)
	if err := s.collections.SetPackages(ctx, remaining); err != nil {
		return fail[struct{}](s.serverFailure("delete_package", err))
	}

	s.telemetry.Record("package.deleted", map[string]string{"package_id": id})
	return succeed(struct{}{})
}
