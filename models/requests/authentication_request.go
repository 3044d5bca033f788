package requests

type AuthenticationRequest struct {
	Username string `json:"username" binding:"required" valid:"Required;MinSize(3);MaxSize(64)" extensions:"!x-nullable"`
	Password string `json:"password" binding:"required" valid:"Required;MinSize(6)" extensions:"!x-nullable"`
}
