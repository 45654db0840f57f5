package http

import (
	"bytes"
	"html/template"
	"net/http"
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/report"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	data := struct {
		Today             string
		Currencies        []core.Currency
		SelectedCurrency  string
		IncomeCategories  []string
		ExpenseCategories []string
		Granularity       string
	}{
		Today:             time.Now().Format(core.DateLayout),
		Currencies:        core.Currencies(),
		SelectedCurrency:  s.store.DefaultCurrency(),
		IncomeCategories:  core.CategoriesFor(core.Income),
		ExpenseCategories: core.CategoriesFor(core.Expense),
		Granularity:       string(s.TrendGranularity()),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "index template execution failed", log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.logger.ErrorContext(r.Context(), "parse form error", log.FieldError, err)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	typ := core.TransactionType(strings.ToLower(sanitizeInput(r.Form.Get("type"))))
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	desc := sanitizeInput(r.Form.Get("description"))
	currency := strings.ToUpper(sanitizeInput(r.Form.Get("currency")))

	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid amount</div>`))
		return
	}

	date := core.NewDate(time.Now().Year(), int(time.Now().Month()), time.Now().Day())
	if v := strings.TrimSpace(r.Form.Get("date")); v != "" {
		date, err = core.ParseDate(v)
		if err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`<div class="error">Invalid date</div>`))
			return
		}
	}

	tx := core.Transaction{
		Type:        typ,
		Amount:      core.Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: desc,
		Currency:    currency,
	}
	saved, err := s.store.Add(r.Context(), tx)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Invalid data: ` + template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	s.logger.InfoContext(r.Context(), "transaction created",
		log.FieldTxID, saved.ID,
		log.FieldTxType, string(saved.Type),
		log.FieldCategory, saved.Category,
		log.FieldAmountCents, saved.Amount.Cents,
		log.FieldCurrency, saved.Currency)

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"op": "add"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded: ` +
		template.HTMLEscapeString(saved.Category) +
		` ` + template.HTMLEscapeString(core.FormatAmount(saved.Amount, saved.Currency)) + `</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	id := sanitizeInput(r.Form.Get("id"))
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Missing transaction id</div>`))
		return
	}

	if !s.store.Delete(r.Context(), id) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<div class="error">Transaction not found</div>`))
		return
	}

	s.logger.InfoContext(r.Context(), "transaction deleted", log.FieldTxID, id)
	w.Header().Set("HX-Trigger", `{"ledger:changed": {"op": "delete"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Transaction removed</div>`))
}

func (s *Server) handleCurrencyPreference(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	code := strings.ToUpper(sanitizeInput(r.Form.Get("currency")))
	if code == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Missing currency code</div>`))
		return
	}

	s.store.SetDefaultCurrency(r.Context(), code)
	s.logger.InfoContext(r.Context(), "currency preference updated", log.FieldCurrency, code)

	w.Header().Set("HX-Trigger", `{"ledger:changed": {"op": "preference"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Default currency set to ` + template.HTMLEscapeString(code) + `</div>`))
}

// handleTransactionList renders the filtered, sorted list partial.
func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	q := r.URL.Query()
	filter := report.Filter{
		Query:    q.Get("query"),
		Type:     core.TransactionType(strings.ToLower(strings.TrimSpace(q.Get("type")))),
		Category: strings.TrimSpace(q.Get("category")),
		Currency: strings.ToUpper(strings.TrimSpace(q.Get("currency"))),
	}
	items := report.Apply(s.store.List(), filter, parseSortKey(q.Get("sort")))

	type row struct {
		ID       string
		Date     string
		Type     string
		Category string
		Desc     string
		Amount   string
		Expense  bool
	}
	data := struct {
		Rows  []row
		Count int
		Total int
	}{Count: len(items), Total: s.store.Len()}
	for _, tx := range items {
		data.Rows = append(data.Rows, row{
			ID:       tx.ID,
			Date:     displayDate(tx.Date),
			Type:     string(tx.Type),
			Category: tx.Category,
			Desc:     tx.Description,
			Amount:   core.FormatAmount(tx.Amount, tx.Currency),
			Expense:  tx.Type == core.Expense,
		})
	}

	if err := s.templates.ExecuteTemplate(w, "transactions.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "transactions template execution failed", log.FieldError, err)
		_, _ = w.Write([]byte(`<section id="transactions"><div class="placeholder">Error rendering list</div></section>`))
	}
}

// handleSummary renders the per-currency totals, category breakdown and trend
// partial. The rendered HTML is cached until the next mutation.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	currency := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("currency")))
	if currency == "" {
		currency = s.store.DefaultCurrency()
	}
	if g := report.Granularity(strings.ToLower(r.URL.Query().Get("granularity"))); g.IsValid() {
		s.setGranularity(g)
	}
	granularity := s.TrendGranularity()

	key := "summary|" + currency + "|" + string(granularity)
	if html, found := s.summaryCache.Get(key); found {
		_, _ = w.Write([]byte(html))
		return
	}

	html, err := s.renderSummary(currency, granularity)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "summary template execution failed", log.FieldError, err)
		_, _ = w.Write([]byte(`<section id="summary"><div class="placeholder">Error rendering summary</div></section>`))
		return
	}
	s.summaryCache.Set(key, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderSummary(currency string, granularity report.Granularity) (string, error) {
	txs := s.store.List()
	totals := report.TotalsFor(txs, currency)
	breakdown := report.Breakdown(txs, currency)
	buckets, skipped := report.Trend(txs, currency, granularity)

	type row struct {
		Name   string
		Amount string
		Width  int
	}

	// Other currencies present in the ledger, for switching.
	var available []string
	for code := range report.TotalsByCurrency(txs) {
		if code != currency {
			available = append(available, code)
		}
	}
	sort.Strings(available)

	data := struct {
		Currency    string
		Available   []string
		Income      string
		Expenses    string
		Balance     string
		Rows        []row
		Granularity string
		Trend       []row
		Skipped     int
	}{
		Currency:    currency,
		Available:   available,
		Income:      core.FormatAmount(totals.Income, currency),
		Expenses:    core.FormatAmount(totals.Expenses, currency),
		Balance:     core.FormatAmount(totals.Balance, currency),
		Granularity: string(granularity),
		Skipped:     skipped,
	}

	// Bars scale against the largest bucket, rounded percent with a minimum
	// visible width.
	var maxCents int64
	for _, b := range breakdown {
		if b.Amount.Cents > maxCents {
			maxCents = b.Amount.Cents
		}
	}
	for _, b := range breakdown {
		data.Rows = append(data.Rows, row{
			Name:   b.Category,
			Amount: core.FormatAmount(b.Amount, currency),
			Width:  barWidth(b.Amount.Cents, maxCents),
		})
	}

	maxCents = 0
	for _, b := range buckets {
		if b.Total.Cents > maxCents {
			maxCents = b.Total.Cents
		}
	}
	for _, b := range buckets {
		data.Trend = append(data.Trend, row{
			Name:   b.Key,
			Amount: core.FormatAmount(b.Total, currency),
			Width:  barWidth(b.Total.Cents, maxCents),
		})
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "summary.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func barWidth(cents, maxCents int64) int {
	if maxCents <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + maxCents/2) / maxCents)
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}
