package heston

import (
	"math"
	"math/cmplx"

	"github.com/rickgao/options-data/internal/model"
)

// characteristic evaluates the Heston characteristic function at angular
// frequency phi for maturity t (years). Branch j selects the measure:
// j=1 gives the stock-measure transform, j=2 the risk-neutral one.
func characteristic(phi float64, p model.ModelParameters, t float64, j int) complex128 {
	var u, b float64
	if j == 1 {
		u = 0.5
		b = p.Kappa - p.Rho*p.Sigma
	} else {
		u = -0.5
		b = p.Kappa
	}

	iphi := complex(0, phi)
	sigma2 := p.Sigma * p.Sigma

	// rho*sigma*i*phi - b appears throughout; keep one copy.
	a := complex(p.Rho*p.Sigma, 0)*iphi - complex(b, 0)

	d := cmplx.Sqrt(a*a - complex(sigma2, 0)*(complex(2*u, 0)*iphi-complex(phi*phi, 0)))
	g := (-a + d) / (-a - d)

	edt := cmplx.Exp(d * complex(t, 0))

	c := complex(p.Rate, 0)*iphi*complex(t, 0) +
		complex(p.Kappa*p.Theta/sigma2, 0)*
			((-a+d)*complex(t, 0)-2*cmplx.Log((1-g*edt)/(1-g)))

	dv := ((-a + d) / complex(sigma2, 0)) * ((1 - edt) / (1 - g*edt))

	return cmplx.Exp(c + dv*complex(p.V0, 0) + iphi*complex(math.Log(p.Spot), 0))
}

// integrand is the real part of e^{-i*phi*ln K} * CF(phi,j) / (i*phi).
// phi=0 is a removable singularity and is defined as 0 rather than evaluated.
func integrand(phi float64, p model.ModelParameters, strike, t float64, j int) float64 {
	if phi == 0 {
		return 0
	}
	iphi := complex(0, phi)
	v := cmplx.Exp(-iphi*complex(math.Log(strike), 0)) * characteristic(phi, p, t, j) / iphi
	return real(v)
}
