package lots_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/wepark-client/apiclient/callerfake"
	"github.com/jrsteele09/wepark-client/lots"
	"github.com/stretchr/testify/require"
)

func TestMutationSucceedsWhenRefreshFails(t *testing.T) {
	ctx := context.Background()
	api := callerfake.NewFakeCaller().
		On(http.MethodPost, "lot", http.StatusCreated, map[string]string{"message": "Parking Lot added successfully!"}).
		On(http.MethodPut, "lot/2", http.StatusOK, map[string]string{"message": "Parking Lot updated successfully!"}).
		On(http.MethodDelete, "lot/2", http.StatusOK, map[string]string{"message": "Parking lot deleted successfully!"}).
		On(http.MethodGet, "lot", http.StatusInternalServerError, map[string]string{"message": "refresh blip"})
	svc := lots.New(api)

	msg, err := svc.CreateLot(ctx, lots.LotInput{PrimeLocation: "Harbour", PricePerHour: 10, Address: "2 Dock Road", Pincode: "400001", NoOfSpots: 2})
	require.NoError(t, err)
	require.Equal(t, "Parking Lot added successfully!", msg)
	require.EqualError(t, svc.Err(), "refresh blip")

	msg, err = svc.UpdateLot(ctx, 2, lots.LotInput{PrimeLocation: "Harbour", PricePerHour: 12, Address: "2 Dock Road", Pincode: "400001"})
	require.NoError(t, err)
	require.Equal(t, "Parking Lot updated successfully!", msg)

	msg, err = svc.DeleteLot(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Parking lot deleted successfully!", msg)
	require.Equal(t, []string{"POST lot", "GET lot", "PUT lot/2", "GET lot", "DELETE lot/2", "GET lot"}, api.Calls())
}
