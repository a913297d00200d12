//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adyen/shopsuite/internal/locator"
	"github.com/adyen/shopsuite/internal/testutil"
)

// Locators on the wishlist page, keyed by product name
const (
	wishlistProduct   locator.Template = `//td[@class='product']/a[text()='%s']`
	wishlistRemoveBtn locator.Template = `//td[@class='product']/a[text()='%s']/ancestor::tr//button[@class='remove-btn']`
)

// addToWishlistFromHome adds a product from its home page tile and opens the wishlist
func addToWishlistFromHome(t *testing.T, f *testutil.Fixture, name string) {
	t.Helper()
	click(t, f, xpath(t, homeWishlistBtn, name))
	require.NoError(t, f.Wait.TextInElement(".bar-notification p", mustValue(t, productsData, "barNotificationText[4]")))
	closeBarNotification(t, f)

	click(t, f, "a.ico-wishlist")
	require.NoError(t, f.Wait.URLContains("/wishlist"))
}

// TestAddProductToWishlist tests saving a product for later
// Feature: Wishlist
//
//	As a customer
//	I want to save products to my wishlist
//	So that I can buy them later
func TestAddProductToWishlist(t *testing.T) {
	// Scenario: Add the phone from the home page
	//   Given I am on the home page
	//   When I add the phone to my wishlist
	//   Then I should see the wishlist notification
	//   And the phone should be listed on my wishlist
	t.Parallel()
	f := suite.Setup(t)
	phone := mustValue(t, productsData, "productsTextName.phone")

	// When I add the phone to my wishlist
	// Then I should see the wishlist notification
	addToWishlistFromHome(t, f, phone)

	// And the phone should be listed on my wishlist
	_, err := f.Wait.Visible(xpath(t, wishlistProduct, phone))
	assert.NoError(t, err)
}

// TestRemoveProductFromWishlist tests removing a saved product
// Feature: Wishlist
//
//	As a customer
//	I want to remove products from my wishlist
//	So that it only holds what I still want
func TestRemoveProductFromWishlist(t *testing.T) {
	// Scenario: Remove the phone
	//   Given the phone is on my wishlist
	//   When I remove it
	//   Then it should no longer be listed
	t.Parallel()
	f := suite.Setup(t)
	phone := mustValue(t, productsData, "productsTextName.phone")

	// Given the phone is on my wishlist
	addToWishlistFromHome(t, f, phone)
	_, err := f.Wait.Visible(xpath(t, wishlistProduct, phone))
	require.NoError(t, err)

	// When I remove it
	click(t, f, xpath(t, wishlistRemoveBtn, phone))

	// Then it should no longer be listed
	assert.NoError(t, f.Wait.Invisible(xpath(t, wishlistProduct, phone)))
	outcome, err := f.Wait.Check(xpath(t, wishlistProduct, phone))
	require.NoError(t, err)
	assert.False(t, outcome.OK(), "phone still listed: %s", outcome)
}
