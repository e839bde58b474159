// Package master_repo reads the master data synced from SAP: products,
// parties, party addresses and dispatch locations.
package master_repo

import (
	"github.com/Masterminds/squirrel"
)

const (
	tableProducts   = "sap_products"
	tableParties    = "sap_parties"
	tableAddresses  = "sap_party_addresses"
	tableDispatches = "dispatch_locations"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
