package v1_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"exusiai.dev/pocketstats/internal/pkg/collectorid"
	"exusiai.dev/pocketstats/internal/pkg/testentry"
)

type harness struct {
	t      *testing.T
	app    *fiber.App
	stores testentry.Stores
}

func startup(t *testing.T) *harness {
	t.Helper()

	h := &harness{t: t}
	testentry.Populate(t, &h.app, &h.stores)
	return h
}

func (h *harness) request(method, target, body, collector string) (*http.Response, string) {
	h.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if collector != "" {
		req.Header.Set(fiber.HeaderAuthorization, collectorid.AuthorizationRealm+" "+collector)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp, string(b)
}

func TestCollectors(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodPost, "/api/v1/collectors", "", "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := gjson.Get(body, "collectorId").String()
	assert.True(t, collectorid.Valid(id))
	assert.Equal(t, id, resp.Header.Get(collectorid.SetHeader))
	assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), collectorid.CookieKey+"="+id)

	resp, body = h.request(http.MethodPost, "/api/v1/collectors", "", "ash")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ash", gjson.Get(body, "collectorId").String())
}

func TestRequiresCollector(t *testing.T) {
	h := startup(t)

	for _, target := range []string{"/api/v1/collection", "/api/v1/filters", "/api/v1/overview", "/api/v1/expansions/A1/pull-rates"} {
		resp, body := h.request(http.MethodGet, target, "", "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, target)
		assert.Equal(t, "UNAUTHORIZED", gjson.Get(body, "code").String(), target)
	}
}

func TestCollection(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/collection", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, int64(0), gjson.Get(body, "revision").Int())
	assert.Equal(t, 0, len(gjson.Get(body, "cards").Array()))
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "no-store")

	resp, body = h.request(http.MethodPut, "/api/v1/collection",
		`{"cards":[{"card_id":"A1-001","amount_owned":1},{"card_id":"A1-005","amount_owned":2},{"card_id":"A1-001","amount_owned":3}]}`, "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, int64(1), gjson.Get(body, "revision").Int())
	assert.Equal(t, map[string]int{"A1-001": 3, "A1-005": 2}, h.stores.Owned.Cards["ash"])
	assert.Len(t, h.stores.Events.Msgs, 1)

	resp, body = h.request(http.MethodGet, "/api/v1/collection", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, int64(1), gjson.Get(body, "revision").Int())
	assert.Equal(t, 2, len(gjson.Get(body, "cards").Array()))

	t.Run("negative amount", func(t *testing.T) {
		resp, body := h.request(http.MethodPut, "/api/v1/collection", `{"cards":[{"card_id":"A1-001","amount_owned":-1}]}`, "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", gjson.Get(body, "code").String())
		assert.True(t, gjson.Get(body, "violations").IsArray())
	})

	t.Run("unknown card", func(t *testing.T) {
		resp, body := h.request(http.MethodPut, "/api/v1/collection", `{"cards":[{"card_id":"ZZ-404","amount_owned":1}]}`, "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "ZZ-404", gjson.Get(body, "unknownCardIds.0").String())
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, body := h.request(http.MethodPut, "/api/v1/collection", `{"cards":`, "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_REQUEST", gjson.Get(body, "code").String())
	})
}

func TestFilters(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/filters", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"rarityFilter":[],"numberFilter":1}`, body)

	resp, body = h.request(http.MethodPut, "/api/v1/filters", `{"rarityFilter":["◊","Crown Rare","◊"],"numberFilter":2}`, "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"rarityFilter":["◊","Crown Rare"],"numberFilter":2}`, body)

	resp, body = h.request(http.MethodGet, "/api/v1/filters", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"rarityFilter":["◊","Crown Rare"],"numberFilter":2}`, body)

	resp, body = h.request(http.MethodPut, "/api/v1/filters", `{"rarityFilter":["Mythic"],"numberFilter":2}`, "ash")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "rarity", gjson.Get(body, "violations.0.violation").String())

	resp, _ = h.request(http.MethodPut, "/api/v1/filters", `{"rarityFilter":[],"numberFilter":9}`, "ash")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOverview(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/overview", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.False(t, gjson.Get(body, "hasCards").Bool())
	assert.Equal(t, int64(39), gjson.Get(body, "totalUniqueCards").Int())
	assert.Equal(t, "1024", gjson.Get(body, "siteStats.collectionCount").String())
	assert.Equal(t, "128", gjson.Get(body, "siteStats.usersCount").String())
	assert.Equal(t, 3, len(gjson.Get(body, "expansions").Array()))
	assert.Equal(t, "Mewtwo", gjson.Get(body, "highestProbabilityPack.packName").String())

	resp, body = h.request(http.MethodPut, "/api/v1/collection", `{"cards":[{"card_id":"A1-001","amount_owned":2}]}`, "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	resp, body = h.request(http.MethodGet, "/api/v1/overview", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.True(t, gjson.Get(body, "hasCards").Bool())
	assert.Equal(t, int64(1), gjson.Get(body, "nrOfCardsOwned").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "totalCopiesOwned").Int())

	t.Run("overrides", func(t *testing.T) {
		q := url.Values{"rarity": {"◊"}, "number": {"3"}}
		resp, body := h.request(http.MethodGet, "/api/v1/overview?"+q.Encode(), "", "ash")
		require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
		assert.Equal(t, "◊", gjson.Get(body, "rarityFilter.0").String())
		assert.Equal(t, int64(3), gjson.Get(body, "numberFilter").Int())
		assert.Equal(t, int64(0), gjson.Get(body, "nrOfCardsOwned").Int())
	})

	t.Run("invalid overrides", func(t *testing.T) {
		resp, _ := h.request(http.MethodGet, "/api/v1/overview?number=6", "", "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resp, _ = h.request(http.MethodGet, "/api/v1/overview?number=abc", "", "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		resp, _ = h.request(http.MethodGet, "/api/v1/overview?rarity=Mythic", "", "ash")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestPullRates(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/expansions/A1/pull-rates", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	rates := gjson.Parse(body).Array()
	require.Len(t, rates, 3)
	for _, r := range rates {
		assert.InDelta(t, 1.0, r.Get("percentage").Float(), 1e-9)
		assert.NotEmpty(t, r.Get("fill").String())
	}

	resp, body = h.request(http.MethodGet, "/api/v1/expansions/P-A/pull-rates", "", "ash")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "[]", body)

	resp, body = h.request(http.MethodGet, "/api/v1/expansions/ZZ/pull-rates", "", "ash")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", gjson.Get(body, "code").String())
}

func TestCatalog(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/expansions", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, []string{"A1", "A1a", "P-A"}, stringsOf(gjson.Get(body, "#.id")))
	assert.Contains(t, resp.Header.Get(fiber.HeaderCacheControl), "public")

	resp, body = h.request(http.MethodGet, "/api/v1/cards?q=venusaur", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, []string{"A1-003", "A1-004", "A1-022"}, stringsOf(gjson.Get(body, "#.card_id")))

	q := url.Values{"q": {"venusaur"}, "rarity": {"◊◊◊◊"}}
	resp, body = h.request(http.MethodGet, "/api/v1/cards?"+q.Encode(), "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Equal(t, []string{"A1-004"}, stringsOf(gjson.Get(body, "#.card_id")))
}

func TestSiteStats(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/stats", "", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"collectionCount":"1024","usersCount":"128"}`, body)
}

func TestUnknownRoute(t *testing.T) {
	h := startup(t)

	resp, body := h.request(http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_ERROR", gjson.Get(body, "code").String())
}

func stringsOf(r gjson.Result) []string {
	out := []string{}
	for _, v := range r.Array() {
		out = append(out, v.String())
	}
	return out
}
