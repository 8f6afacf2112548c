// Package dataprocessing turns the two uploaded spreadsheets into package records.
//
// The logmanager sheet lists orders (one row per Pedido) and the gestora sheet
// lists delivered packages keyed by pedido_marketplace. Both are read with
// excelize, their header row is located by required column names, and each
// row is normalized before the two sides are left-joined:
//
//	logmanager.xlsx ─┐
//	                 ├─ Merge (Pedido = pedido_marketplace) ─ ClassifySLA ─ []PackageRecord
//	gestora.xlsx ────┘
//
// Gestora rows only count when the seller is a MELI seller and the marketplace
// order id is numeric. Dates are normalized to YYYY-MM-DD and CEPs to digits.
package dataprocessing
