// Package analytics builds the dashboard views from a record snapshot.
//
// Every builder is a pure function of its input records and parameters. It
// reads the slice it is given and never mutates it, so the same snapshot can
// serve concurrent requests without locking. A builder reports "no data" by
// returning false when the record set is empty; the transport layer maps
// that to a 404.
//
// Views:
//
//	Overview        SLA metrics, last 10 days of SLA %, top-5 rankings
//	SlaPerformance  filtered SLA trend plus the matching records
//	Delays          delay statistics and breakdowns by day, zone, CEP, seller
//	Sellers         per-seller metrics ranked by volume
//	Zones           per-zone and per-CEP metrics ordered by delays
//	Rankings        seller/zone ranking lists
//	Consolidated    one page of the merged record base
//	Historical      first half vs second half of the order dates
//
// FilterOptions lists the facet values usable as filters.
package analytics
