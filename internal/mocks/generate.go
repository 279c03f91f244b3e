package mocks

//go:generate mockery --name Source --srcpkg github.com/aevon-lab/regpulse/internal/source --output ./source --outpkg sourcemocks --with-expecter
