package dto

type ProductRequest struct {
	Name  string `json:"name" form:"name"`
	Price string `json:"price" form:"price"`
	Desc  string `json:"desc" form:"desc"`
}
