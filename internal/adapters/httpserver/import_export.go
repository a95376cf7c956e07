package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/gadgetwall/backoffice/internal/domain"
	"github.com/gadgetwall/backoffice/internal/usecase"
)

// apiImportCSV previews an inbound-stock CSV. Accepts either a multipart
// upload under "file" or a JSON body {"csv": "..."}; nothing is written until
// the preview is confirmed.
func (s *Server) apiImportCSV(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	raw, err := readCSVBody(r)
	if err != nil {
		http.Error(w, "body", 400)
		return
	}
	txs, products, err := s.importer.Preview(raw)
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyCSV) {
			http.Error(w, err.Error(), 400)
			return
		}
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, map[string]any{
		"transactions": txs,
		"products":     products,
	})
}

func readCSVBody(r *http.Request) (string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			return "", err
		}
		f, _, err := r.FormFile("file")
		if err != nil {
			return "", err
		}
		defer f.Close()
		b, err := io.ReadAll(f)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var in struct {
		CSV string `json:"csv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return "", err
	}
	return in.CSV, nil
}

func (s *Server) apiImportConfirm(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var in struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "json", 400)
		return
	}
	if len(in.Products) == 0 {
		http.Error(w, "nothing to import", 400)
		return
	}
	added, err := s.importer.Confirm(r.Context(), in.Products)
	if err != nil {
		log.Error().Err(err).Int("added", added).Msg("import confirm")
		http.Error(w, "err", 500)
		return
	}
	writeJSON(w, 200, map[string]int{"added": added})
}

func (s *Server) apiExportCSV(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=products.csv")
	fmt.Fprintln(w, "name,category,brand,price,cost,stock,barcode,serial_numbers,description")
	page := 1
	for {
		list, total, err := s.catalog.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200})
		if err != nil || len(list) == 0 {
			break
		}
		for _, p := range list {
			fmt.Fprintf(w, "%s,%s,%s,%.2f,%.2f,%d,%s,%q,%q\n",
				p.Name, p.Category, p.Brand, p.Price, p.Cost, p.Stock,
				p.Barcode, strings.Join(p.SerialNumbers, ";"), p.Description)
		}
		if page*200 >= int(total) {
			break
		}
		page++
	}
}

func (s *Server) apiExportXLSX(w http.ResponseWriter, r *http.Request) {
	if s.requireUser(w, r) == nil {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Products"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"Name", "Category", "Brand", "Price", "Cost", "Stock", "Barcode", "Serial Numbers", "Description"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	row := 2
	page := 1
	for {
		list, total, err := s.catalog.List(r.Context(), domain.ProductFilter{Page: page, PageSize: 200})
		if err != nil || len(list) == 0 {
			break
		}
		for _, p := range list {
			vals := []any{p.Name, p.Category, p.Brand, p.Price, p.Cost, p.Stock, p.Barcode, strings.Join(p.SerialNumbers, ";"), p.Description}
			for i, v := range vals {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, v)
			}
			row++
		}
		if page*200 >= int(total) {
			break
		}
		page++
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("write xlsx")
	}
}
