package domain

func (c *OrderCounts) Add(status OrderStatus) {
	c.Total++
	switch status {
	case OrderStatusPending:
		c.Pending++
	case OrderStatusCompleted:
		c.Completed++
	case OrderStatusCancelled:
		c.Cancelled++
	}
}

// CountOrdersByCustomer tallies orders per referenced customer id, including
// ids that no longer resolve to a customer.
func CountOrdersByCustomer(orders []Order) map[string]OrderCounts {
	counts := make(map[string]OrderCounts)
	for _, order := range orders {
		entry := counts[order.CustomerID]
		entry.Add(order.Status)
		counts[order.CustomerID] = entry
	}
	return counts
}

func WithOrderCounts(customers []Customer, orders []Order) []CustomerWithOrderCounts {
	counts := CountOrdersByCustomer(orders)
	result := make([]CustomerWithOrderCounts, 0, len(customers))
	for _, customer := range customers {
		result = append(result, CustomerWithOrderCounts{
			Customer:    customer,
			OrderCounts: counts[customer.ID],
		})
	}
	return result
}

func WithOrderDetails(orders []Order, customers []Customer, packages []Package) []OrderWithDetails {
	customersByID := make(map[string]Customer, len(customers))
	for _, customer := range customers {
		customersByID[customer.ID] = customer
	}
	packagesByID := make(map[string]Package, len(packages))
	for _, pkg := range packages {
		packagesByID[pkg.ID] = pkg
	}

	result := make([]OrderWithDetails, 0, len(orders))
	for _, order := range orders {
		entry := OrderWithDetails{Order: order}
		if customer, ok := customersByID[order.CustomerID]; ok {
			entry.Customer = &customer
		}
		if pkg, ok := packagesByID[order.PackageID]; ok {
			entry.Package = &pkg
		}
		result = append(result, entry)
	}
	return result
}

func HasOrdersForCustomer(orders []Order, customerID string) bool {
	for _, order := range orders {
		if order.CustomerID == customerID {
			return true
		}
	}
	return false
}
