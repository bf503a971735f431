// Command oseonmock serves a small in-memory imitation of the Oseon
// REST API for local development. It implements just the endpoints and
// query parameters oseon-mcp uses, including the noise a real
// installation carries: template orders, test records and sentinel due
// dates.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/blechwerk/oseon-mcp/internal/orders"
)

type envelope struct {
	Collection any `json:"collection"`
	Records    int `json:"records"`
	Pages      int `json:"pages"`
}

func main() {
	addr := flag.String("addr", ":8999", "listen address")
	flag.Parse()

	now := time.Now()
	customers := seedCustomerOrders(now)
	productions := seedProductionOrders(now)

	r := chi.NewRouter()
	r.Use(requireBasicAuth)

	r.Get("/api/v2/sales/customerOrders", func(w http.ResponseWriter, req *http.Request) {
		matched := filterCustomerOrders(customers, req)
		writePage(w, req, len(matched), func(lo, hi int) any { return matched[lo:hi] })
	})

	r.Get("/api/v2/sales/customerOrders/{orderNo}", func(w http.ResponseWriter, req *http.Request) {
		orderNo := chi.URLParam(req, "orderNo")
		for _, order := range customers {
			if order.CustomerOrderNo == orderNo {
				writeJSON(w, http.StatusOK, order)
				return
			}
		}
		http.Error(w, fmt.Sprintf("customer order %s not found", orderNo), http.StatusNotFound)
	})

	r.Get("/api/v2/pps/productionOrders/full/search", func(w http.ResponseWriter, req *http.Request) {
		matched := filterProductionOrders(productions, req)
		writePage(w, req, len(matched), func(lo, hi int) any { return matched[lo:hi] })
	})

	log.Printf("oseonmock listening on %s (%d customer orders, %d production orders)",
		*addr, len(customers), len(productions))
	log.Fatal(http.ListenAndServe(*addr, r))
}

func requireBasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if _, _, ok := req.BasicAuth(); !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="oseonmock"`)
			http.Error(w, "credentials required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// writePage slices the matched set per size/page and wraps it in the
// collection envelope. Pages are zero-based, exactly like the real API.
func writePage(w http.ResponseWriter, req *http.Request, total int, slice func(lo, hi int) any) {
	size, err := strconv.Atoi(req.URL.Query().Get("size"))
	if err != nil || size <= 0 || size > 50 {
		size = 50
	}
	page, err := strconv.Atoi(req.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}

	pages := (total + size - 1) / size
	lo := page * size
	if lo > total {
		lo = total
	}
	hi := lo + size
	if hi > total {
		hi = total
	}
	writeJSON(w, http.StatusOK, envelope{Collection: slice(lo, hi), Records: total, Pages: pages})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func filterCustomerOrders(all []orders.CustomerOrder, req *http.Request) []orders.CustomerOrder {
	q := req.URL.Query()
	since := q.Get("since")
	status := q.Get("status")
	customerNo := q.Get("customerNo")
	search := strings.Trim(q.Get("searchBy"), "%")
	itemNo := q.Get("itemNo")

	var matched []orders.CustomerOrder
	for _, order := range all {
		if since != "" && order.ModificationDate < since {
			continue
		}
		if status != "" && !strings.EqualFold(order.Status, status) {
			continue
		}
		if customerNo != "" && order.CustomerNo != customerNo {
			continue
		}
		if search != "" && !strings.Contains(order.CustomerOrderNo, search) &&
			!strings.Contains(order.CustomerOrderNoExt, search) {
			continue
		}
		if itemNo != "" && !hasItem(order, itemNo) {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ModificationDate > matched[j].ModificationDate
	})
	return matched
}

func hasItem(order orders.CustomerOrder, itemNo string) bool {
	for _, pos := range order.Positions {
		if pos.ItemNo == itemNo {
			return true
		}
	}
	return false
}

func filterProductionOrders(all []orders.ProductionOrder, req *http.Request) []orders.ProductionOrder {
	q := req.URL.Query()
	since := q.Get("since")
	status := q.Get("status")
	search := strings.Trim(q.Get("searchBy"), "%")

	var matched []orders.ProductionOrder
	for _, order := range all {
		if since != "" && order.ModificationDate < since {
			continue
		}
		if status != "" && strconv.Itoa(order.Status) != status {
			continue
		}
		if search != "" && !strings.Contains(order.OrderNo, search) &&
			!strings.Contains(order.OrderNoExt, search) &&
			!strings.Contains(order.CustomerOrderNo, search) {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ModificationDate > matched[j].ModificationDate
	})
	return matched
}

func seedCustomerOrders(now time.Time) []orders.CustomerOrder {
	iso := func(daysAgo int) string { return now.AddDate(0, 0, -daysAgo).Format("2006-01-02T15:04:05") }

	mk := func(no, customerNo, customerName, status string, modDaysAgo, dueDaysAgo int, positions ...orders.Position) orders.CustomerOrder {
		return orders.CustomerOrder{
			CustomerOrderNo:    no,
			CustomerOrderNoExt: "EXT-" + no,
			CustomerNo:         customerNo,
			CustomerName:       customerName,
			Description:        "Laser-cut parts " + no,
			Status:             status,
			OrderDate:          iso(modDaysAgo + 5),
			ModificationDate:   iso(modDaysAgo),
			DeliveryDate:       iso(dueDaysAgo),
			DueDate:            iso(dueDaysAgo),
			Positions:          positions,
		}
	}
	pos := func(itemNo string, price, qty string) orders.Position {
		return orders.Position{
			PositionNo:      "10",
			ItemNo:          itemNo,
			Status:          "RELEASED",
			NetPricePerUnit: decimal.RequireFromString(price),
			TargetQuantity:  decimal.RequireFromString(qty),
			Currency:        "EUR",
		}
	}

	list := []orders.CustomerOrder{
		mk("CO-24001", "K1001", "Blechbau Nord GmbH", "RELEASED", 2, -14, pos("ITEM-100", "12.50", "200")),
		mk("CO-24002", "K1002", "Maschinen Vogel AG", "IN_PROGRESS", 4, -7, pos("ITEM-200", "8.40", "150")),
		mk("CO-24003", "K1001", "Blechbau Nord GmbH", "IN_PROGRESS", 6, 10, pos("ITEM-100", "12.50", "50")),
		mk("CO-24004", "K1003", "Stahlpartner Süd KG", "COMPLETED", 9, 30, pos("ITEM-300", "99.00", "12")),
		mk("CO-24005", "K1002", "Maschinen Vogel AG", "RELEASED", 12, -21, pos("ITEM-210", "15.75", "80")),
		mk("CO-24006", "K1004", "Anlagenbau West", "INVOICED", 20, 40, pos("ITEM-400", "4.10", "1000")),
		mk("CO-24007", "K1003", "Stahlpartner Süd KG", "IN_PROGRESS", 25, 5, pos("ITEM-310", "51.30", "25")),
		mk("CO-24008", "K1001", "Blechbau Nord GmbH", "RELEASED", 40, -60, pos("ITEM-110", "7.20", "320")),
	}

	// The noise a real installation accumulates: template orders with
	// sentinel due dates, test records and placeholder customers.
	noise := []orders.CustomerOrder{
		mk("CO-TEMPLATE", "K0000", "Vorlage", "RELEASED", 3, 0),
		mk("TEST-001", "K9999", "Testkunde", "RELEASED", 1, -5),
		mk("CO-24099", "K0001", "None", "RELEASED", 5, -5),
	}
	noise[0].DueDate = "31.12.9999 00:00:00"
	noise[0].DeliveryDate = "31.12.9999 00:00:00"

	return append(list, noise...)
}

func seedProductionOrders(now time.Time) []orders.ProductionOrder {
	iso := func(daysAgo int) string { return now.AddDate(0, 0, -daysAgo).Format("2006-01-02T15:04:05") }

	mk := func(no, customerOrderNo, customerNo, customerName, itemNo string, status, modDaysAgo, dueDaysAgo int) orders.ProductionOrder {
		return orders.ProductionOrder{
			OrderNo:          no,
			OrderNoExt:       "EXT-" + no,
			CustomerOrderNo:  customerOrderNo,
			CustomerNo:       customerNo,
			CustomerName:     customerName,
			ItemNo:           itemNo,
			ItemDescription:  "Part " + itemNo,
			Status:           status,
			OrderDate:        iso(modDaysAgo + 3),
			ReleaseDate:      iso(modDaysAgo + 1),
			DueDate:          iso(dueDaysAgo),
			ModificationDate: iso(modDaysAgo),
			Quantity:         decimal.NewFromInt(100),
			Unit:             "pcs",
		}
	}

	list := []orders.ProductionOrder{
		mk("PO-5001", "CO-24001", "K1001", "Blechbau Nord GmbH", "ITEM-100", 40, 1, -14),
		mk("PO-5002", "CO-24001", "K1001", "Blechbau Nord GmbH", "ITEM-110", 30, 2, -14),
		mk("PO-5003", "CO-24002", "K1002", "Maschinen Vogel AG", "ITEM-200", 40, 3, 4),
		mk("PO-5004", "CO-24003", "K1001", "Blechbau Nord GmbH", "ITEM-100", 30, 5, 10),
		mk("PO-5005", "CO-24004", "K1003", "Stahlpartner Süd KG", "ITEM-300", 90, 8, 30),
		mk("PO-5006", "CO-24005", "K1002", "Maschinen Vogel AG", "ITEM-210", 20, 11, -21),
		mk("PO-5007", "CO-24007", "K1003", "Stahlpartner Süd KG", "ITEM-310", 40, 24, 6),
		mk("PO-5008", "", "K1004", "Anlagenbau West", "ITEM-400", 10, 30, -30),
	}

	noise := []orders.ProductionOrder{
		mk("PO-TEST", "TEST-001", "K9999", "Testkunde", "ITEM-999", 30, 1, -5),
		mk("PO-5099", "CO-24099", "K0001", "None", "ITEM-500", 40, 4, 2),
	}
	noise[0].DueDate = "01.01.5000 00:00:00"

	return append(list, noise...)
}
