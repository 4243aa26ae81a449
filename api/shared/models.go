/* models.go
 * This file contains the structs that are shared between sub packages
 */

package shared

// User associates a display name with a stable participant id. When the bot
// is the entry surface the id is the Discord user id.
type User struct {
	UserId   string
	Username string
}
