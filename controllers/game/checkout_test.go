package gameController_test

import (
	"coachhub/config"
	gameController "coachhub/controllers/game"
	"coachhub/models/game"
	gameRoutes "coachhub/routers/gameRoutes"
	"coachhub/testutil"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseStatus(t *testing.T) {
	cases := []struct {
		tx, fraud string
		want      string
	}{
		{"capture", "accept", game.PurchasePaid},
		{"capture", "challenge", ""},
		{"settlement", "", game.PurchasePaid},
		{"expire", "", game.PurchaseExpired},
		{"cancel", "", game.PurchaseCanceled},
		{"deny", "", game.PurchaseCanceled},
		{"failure", "", game.PurchaseFailed},
		{"pending", "", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, gameController.PurchaseStatus(tc.tx, tc.fraud), tc.tx+"/"+tc.fraud)
	}
}

func TestNotificationSignature(t *testing.T) {
	sig := gameController.NotificationSignature("GAME-1", "200", "980.00", "server-key")
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, gameController.NotificationSignature("GAME-1", "200", "980.00", "server-key"))
	assert.NotEqual(t, sig, gameController.NotificationSignature("GAME-1", "200", "980.00", "other-key"))
}

func TestCheckoutAndNotify(t *testing.T) {
	env := testutil.Setup(t)
	config.AppConfig.MidtransServerKey = "server-key"
	app := testutil.NewApp(gameRoutes.SetupGameRoutes)

	resp := testutil.Do(t, app, http.MethodPost, "/api/game/checkout", map[string]string{
		"plan":        "yearly",
		"email":       "Player@Example.com",
		"player_name": "Ken",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	orderID := resp.Data()["order_id"].(string)
	assert.True(t, strings.HasPrefix(orderID, "GAME-"))
	assert.Equal(t, float64(game.PlanPrices["yearly"]), resp.Data()["amount"])
	assert.Equal(t, "snap-token-"+orderID, resp.Data()["token"])
	require.Len(t, env.Checkout.Requests, 1)
	assert.Equal(t, "player@example.com", env.Checkout.Requests[0].Email)

	notify := map[string]string{
		"order_id":           orderID,
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "9800.00",
		"signature_key":      "forged",
	}
	resp = testutil.Do(t, app, http.MethodPost, "/api/game/payment/notify", notify, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	notify["signature_key"] = gameController.NotificationSignature(orderID, "200", "9800.00", "server-key")
	resp = testutil.Do(t, app, http.MethodPost, "/api/game/payment/notify", notify, "")
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Raw))
	assert.Equal(t, game.PurchasePaid, resp.Data()["status"])

	sent := env.Mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, []string{"player@example.com"}, sent[0].To)

	// a later expire does not undo a paid purchase
	notify["transaction_status"] = "expire"
	resp = testutil.Do(t, app, http.MethodPost, "/api/game/payment/notify", notify, "")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, game.PurchasePaid, resp.Data()["status"])

	resp = testutil.Do(t, app, http.MethodGet, "/api/game/purchases/"+orderID, nil, "")
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, game.PurchasePaid, resp.Data()["status"])
	assert.NotNil(t, resp.Data()["paid_at"])
}

func TestPaymentNotifyWithoutServerKey(t *testing.T) {
	env := testutil.Setup(t)
	config.AppConfig.MidtransServerKey = ""
	app := testutil.NewApp(gameRoutes.SetupGameRoutes)

	resp := testutil.Do(t, app, http.MethodPost, "/api/game/checkout", map[string]string{
		"plan": "monthly", "email": "p@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, string(resp.Raw))
	orderID := resp.Data()["order_id"].(string)

	resp = testutil.Do(t, app, http.MethodPost, "/api/game/payment/notify", map[string]string{
		"order_id":           orderID,
		"transaction_status": "settlement",
		"status_code":        "200",
		"gross_amount":       "980.00",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Status)

	var purchase game.GamePurchase
	require.NoError(t, env.DB.Where("order_id = ?", orderID).First(&purchase).Error)
	assert.Equal(t, game.PurchasePending, purchase.Status)
	assert.Empty(t, env.Mail.Messages())
}

func TestCheckoutProviderFailure(t *testing.T) {
	env := testutil.Setup(t)
	env.Checkout.Err = errors.New("provider down")
	app := testutil.NewApp(gameRoutes.SetupGameRoutes)

	resp := testutil.Do(t, app, http.MethodPost, "/api/game/checkout", map[string]string{
		"plan": "monthly", "email": "p@example.com",
	}, "")
	assert.Equal(t, http.StatusBadGateway, resp.Status)

	var purchase game.GamePurchase
	require.NoError(t, env.DB.First(&purchase).Error)
	assert.Equal(t, game.PurchaseFailed, purchase.Status)

	resp = testutil.Do(t, app, http.MethodPost, "/api/game/checkout", map[string]string{
		"plan": "weekly", "email": "p@example.com",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.Status)

	resp = testutil.Do(t, app, http.MethodGet, "/api/game/purchases/GAME-missing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
