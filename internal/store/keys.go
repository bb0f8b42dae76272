package store

// Key layout:
//
//	session:tokens                 current token pair
//	menuitem:<typeID>:<itemID>     one flat menu item
//	menudirty:<typeID>             present while moves are unsaved
const (
	sessionKey      = "session:tokens"
	menuItemPrefix  = "menuitem:"
	menuDirtyPrefix = "menudirty:"
)

func menuTypePrefix(typeID string) []byte {
	return []byte(menuItemPrefix + typeID + ":")
}

func menuItemKey(typeID, itemID string) []byte {
	return []byte(menuItemPrefix + typeID + ":" + itemID)
}

func menuDirtyKey(typeID string) []byte {
	return []byte(menuDirtyPrefix + typeID)
}
