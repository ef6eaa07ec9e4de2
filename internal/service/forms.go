package service

// PostForm is submitted by the new-post and edit-post pages.
type PostForm struct {
	Title    string `form:"title" binding:"required,notblank,max=250"`
	Subtitle string `form:"subtitle" binding:"required,notblank,max=250"`
	ImgURL   string `form:"img_url" binding:"required,url,max=250"`
	Body     string `form:"body" binding:"required,notblank"`
	Tags     string `form:"tags" binding:"max=500"`
}

type CommentForm struct {
	Text string `form:"comment_text" binding:"required,notblank"`
}

type RegisterForm struct {
	Email    string `form:"email" binding:"required,email,max=100"`
	Password string `form:"password" binding:"required"`
	Name     string `form:"name" binding:"required,notblank,max=100"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

type ContactForm struct {
	Name    string `form:"name" binding:"required,notblank,max=100"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone" binding:"max=40"`
	Message string `form:"message" binding:"required,notblank"`
}
