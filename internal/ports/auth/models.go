package auth

// Claims representa la identidad extraída de un token de sesión.
type Claims struct {
	UserID string
	Email  string
	Name   string

	// EmailConfirmed: false mientras el usuario no confirme su correo.
	// La app lo usa para derivar la fase awaiting-confirmation.
	EmailConfirmed bool
}

// Session es el resultado de un sign-up / sign-in exitoso.
type Session struct {
	Token  string
	Claims Claims
}
