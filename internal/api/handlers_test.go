package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sharedspaces/ledger/internal/cache"
	"github.com/sharedspaces/ledger/internal/ledger"
	"github.com/sharedspaces/ledger/internal/service"
	"github.com/sharedspaces/ledger/internal/storage/memory"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.NewLedgerService(memory.New(), cache.NewInMemoryCache(time.Minute))
	server := httptest.NewServer(NewRouter(svc))
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return resp
}

func createTestList(t *testing.T, server *httptest.Server) ledger.List {
	t.Helper()
	var list ledger.List
	resp := doJSON(t, "POST", server.URL+"/api/lists", map[string]interface{}{
		"title":        "Reimbursements",
		"participants": []string{"Alice", "Bob", "Carol"},
	}, &list)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create list status = %d, want 201", resp.StatusCode)
	}
	return list
}

func TestCreateAndGetList(t *testing.T) {
	server := setupTestServer(t)
	list := createTestList(t, server)

	if list.ID == "" {
		t.Fatal("expected generated list id")
	}

	var got ledger.List
	resp := doJSON(t, "GET", server.URL+"/api/lists/"+list.ID, nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get list status = %d, want 200", resp.StatusCode)
	}
	if got.Title != "Reimbursements" || len(got.Participants) != 3 {
		t.Errorf("unexpected list: %+v", got)
	}
}

func TestGetListNotFound(t *testing.T) {
	server := setupTestServer(t)
	resp := doJSON(t, "GET", server.URL+"/api/lists/nonexistent", nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExpenseEndpoints(t *testing.T) {
	server := setupTestServer(t)
	list := createTestList(t, server)

	// Amounts travel as decimal strings.
	var expense ledger.Expense
	resp := doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/expenses", map[string]interface{}{
		"description":  "Dinner",
		"amount":       "30.00",
		"paid_by":      "Alice",
		"split_method": "equal",
		"participants": []map[string]string{
			{"name": "Alice"}, {"name": "Bob"}, {"name": "Carol"},
		},
	}, &expense)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add expense status = %d, want 201", resp.StatusCode)
	}
	if expense.Amount != 3000 {
		t.Errorf("amount = %d cents, want 3000", expense.Amount)
	}
	for _, s := range expense.Participants {
		if s.Amount != 1000 {
			t.Errorf("%s share = %d, want 1000", s.Name, s.Amount)
		}
	}

	var balances []ledger.Balance
	doJSON(t, "GET", server.URL+"/api/lists/"+list.ID+"/balances", nil, &balances)
	if len(balances) != 3 || balances[0].Name != "Alice" || balances[0].Amount != 2000 {
		t.Errorf("unexpected balances: %v", balances)
	}

	// Validation error surfaces as a 400 with the message.
	var errBody map[string]string
	resp = doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/expenses", map[string]interface{}{
		"description": "Bad",
		"amount":      "-5",
		"paid_by":     "Alice",
	}, &errBody)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid expense status = %d, want 400", resp.StatusCode)
	}
	if errBody["error"] == "" {
		t.Error("expected human-readable error message")
	}

	// Delete and verify balances clear.
	resp = doJSON(t, "DELETE", server.URL+"/api/lists/"+list.ID+"/expenses/"+expense.ID, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete expense status = %d, want 204", resp.StatusCode)
	}
	balances = nil
	doJSON(t, "GET", server.URL+"/api/lists/"+list.ID+"/balances", nil, &balances)
	if len(balances) != 0 {
		t.Errorf("balances after delete = %v, want none", balances)
	}
}

func TestSettlementEndpoints(t *testing.T) {
	server := setupTestServer(t)
	list := createTestList(t, server)

	var expense ledger.Expense
	doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/expenses", map[string]interface{}{
		"description":  "Dinner",
		"amount":       "30.00",
		"paid_by":      "Alice",
		"split_method": "equal",
		"participants": []map[string]string{
			{"name": "Alice"}, {"name": "Bob"}, {"name": "Carol"},
		},
	}, &expense)

	var settlement ledger.Settlement
	resp := doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/settlements", map[string]interface{}{
		"expense_id": expense.ID,
		"from":       "Bob",
		"to":         "Alice",
		"amount":     "10.00",
	}, &settlement)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record settlement status = %d, want 201", resp.StatusCode)
	}
	if settlement.Amount != 1000 {
		t.Errorf("settlement amount = %d, want 1000", settlement.Amount)
	}

	var balances []ledger.Balance
	doJSON(t, "GET", server.URL+"/api/lists/"+list.ID+"/balances", nil, &balances)
	if len(balances) != 2 {
		t.Fatalf("balances after settlement = %v, want Alice and Carol", balances)
	}

	var settlements []ledger.Settlement
	doJSON(t, "GET", server.URL+"/api/lists/"+list.ID+"/settlements", nil, &settlements)
	if len(settlements) != 1 {
		t.Errorf("settlement history length = %d, want 1", len(settlements))
	}

	// Settling a nonexistent expense is a 404, not a silent no-op.
	resp = doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/settlements", map[string]interface{}{
		"expense_id": "nonexistent",
		"from":       "Bob",
		"to":         "Alice",
		"amount":     "1.00",
	}, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("settle unknown expense status = %d, want 404", resp.StatusCode)
	}
}

func TestSuggestionEndpoint(t *testing.T) {
	server := setupTestServer(t)
	list := createTestList(t, server)

	doJSON(t, "POST", server.URL+"/api/lists/"+list.ID+"/expenses", map[string]interface{}{
		"description":  "Dinner",
		"amount":       "30.00",
		"paid_by":      "Alice",
		"split_method": "equal",
		"participants": []map[string]string{
			{"name": "Alice"}, {"name": "Bob"}, {"name": "Carol"},
		},
	}, nil)

	var suggestions []ledger.Transfer
	resp := doJSON(t, "GET", server.URL+"/api/lists/"+list.ID+"/suggestions?strategy=mincashflow", nil, &suggestions)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("suggestions status = %d, want 200", resp.StatusCode)
	}
	if len(suggestions) != 2 {
		t.Errorf("suggestions = %v, want 2 transfers", suggestions)
	}
}

func TestHealthz(t *testing.T) {
	server := setupTestServer(t)
	resp := doJSON(t, "GET", server.URL+"/healthz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}
